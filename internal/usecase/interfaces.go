package usecase

import (
	"context"
	"io"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

// RemoteStore is the remote relational data source behind the prospect
// cache. Inserts and updates return the full row as stored, nested
// interactions included. Implementations wrap entity.ErrNotFound and
// entity.ErrRemoteUnavailable.
type RemoteStore interface {
	ListProspects(ctx context.Context, order record.ListOrder) ([]record.ProspectRecord, error)
	InsertProspect(ctx context.Context, fields record.Fields) (*record.ProspectRecord, error)
	UpdateProspect(ctx context.Context, id string, fields record.Fields) (*record.ProspectRecord, error)
	DeleteProspect(ctx context.Context, id string) error
	InsertInteraction(ctx context.Context, fields record.Fields) (*record.InteractionRecord, error)
}

type EventPublisher interface {
	PublishPipelineEvent(ctx context.Context, evt entity.PipelineEvent) error
}

type StatusUpdater interface {
	Update(ctx context.Context, id string, patch entity.ProspectPatch) (*entity.Prospect, error)
}

type ProspectLister interface {
	Prospects() []entity.Prospect
}

type ProspectAdder interface {
	ProspectLister
	Add(ctx context.Context, in entity.NewProspect) (*entity.Prospect, error)
}

type InteractionAdder interface {
	AddInteraction(ctx context.Context, prospectID string, in entity.NewInteraction) (*entity.Interaction, error)
}

type SpreadsheetCodec interface {
	Encode(w io.Writer, items []entity.Prospect) error
	Decode(r io.Reader) ([]ImportRow, error)
}

type CalendarProvider interface {
	CreateEvent(ctx context.Context, accessToken string, in CalendarEventInput) (*CalendarEventOutput, error)
}
