package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

func TestMultiPublisher_FansOutAndJoinsErrors(t *testing.T) {
	ok := new(MockEventPublisher)
	ok.On("PublishPipelineEvent", mock.Anything, mock.Anything).Return(nil)
	failing := new(MockEventPublisher)
	failing.On("PublishPipelineEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := MultiPublisher{failing, nil, ok}.PublishPipelineEvent(context.Background(), entity.PipelineEvent{Type: entity.EventProspectCreated})

	assert.ErrorContains(t, err, "broker down")
	ok.AssertNumberOfCalls(t, "PublishPipelineEvent", 1)
}

func TestMultiPublisher_Empty(t *testing.T) {
	assert.NoError(t, MultiPublisher{}.PublishPipelineEvent(context.Background(), entity.PipelineEvent{}))
}
