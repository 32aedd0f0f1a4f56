package usecase

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

// MockRemoteStore
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) ListProspects(ctx context.Context, order record.ListOrder) ([]record.ProspectRecord, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]record.ProspectRecord), args.Error(1)
}

func (m *MockRemoteStore) InsertProspect(ctx context.Context, fields record.Fields) (*record.ProspectRecord, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.ProspectRecord), args.Error(1)
}

func (m *MockRemoteStore) UpdateProspect(ctx context.Context, id string, fields record.Fields) (*record.ProspectRecord, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.ProspectRecord), args.Error(1)
}

func (m *MockRemoteStore) DeleteProspect(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRemoteStore) InsertInteraction(ctx context.Context, fields record.Fields) (*record.InteractionRecord, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.InteractionRecord), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPipelineEvent(ctx context.Context, evt entity.PipelineEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// MockStatusUpdater
type MockStatusUpdater struct {
	mock.Mock
}

func (m *MockStatusUpdater) Update(ctx context.Context, id string, patch entity.ProspectPatch) (*entity.Prospect, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prospect), args.Error(1)
}

// MockCodec
type MockCodec struct {
	mock.Mock
}

func (m *MockCodec) Encode(w io.Writer, items []entity.Prospect) error {
	args := m.Called(w, items)
	return args.Error(0)
}

func (m *MockCodec) Decode(r io.Reader) ([]ImportRow, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ImportRow), args.Error(1)
}

// MockCalendarProvider
type MockCalendarProvider struct {
	mock.Mock
}

func (m *MockCalendarProvider) CreateEvent(ctx context.Context, accessToken string, in CalendarEventInput) (*CalendarEventOutput, error) {
	args := m.Called(ctx, accessToken, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CalendarEventOutput), args.Error(1)
}

// MockInteractionAdder
type MockInteractionAdder struct {
	mock.Mock
}

func (m *MockInteractionAdder) AddInteraction(ctx context.Context, prospectID string, in entity.NewInteraction) (*entity.Interaction, error) {
	args := m.Called(ctx, prospectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Interaction), args.Error(1)
}

func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }
