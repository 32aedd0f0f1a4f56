package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

// MultiPublisher fans an event out to several publishers and joins their
// errors.
type MultiPublisher []EventPublisher

func (m MultiPublisher) PublishPipelineEvent(ctx context.Context, evt entity.PipelineEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishPipelineEvent(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
