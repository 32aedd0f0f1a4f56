package entity

import "time"

type PipelineEventType string

const (
	EventProspectCreated  PipelineEventType = "prospect.created"
	EventProspectUpdated  PipelineEventType = "prospect.updated"
	EventStatusChanged    PipelineEventType = "prospect.status_changed"
	EventProspectDeleted  PipelineEventType = "prospect.deleted"
	EventInteractionAdded PipelineEventType = "interaction.added"
)

// PipelineEvent is published after a mutation has been committed to the
// local cache.
type PipelineEvent struct {
	Type            PipelineEventType `json:"type"`
	ProspectID      string            `json:"prospect_id"`
	Nom             string            `json:"nom,omitempty"`
	Entreprise      string            `json:"entreprise,omitempty"`
	Email           string            `json:"email,omitempty"`
	FromStatus      ProspectStatus    `json:"from_status,omitempty"`
	ToStatus        ProspectStatus    `json:"to_status,omitempty"`
	InteractionID   string            `json:"interaction_id,omitempty"`
	InteractionType InteractionType   `json:"interaction_type,omitempty"`
	InteractionDate *time.Time        `json:"interaction_date,omitempty"`
	OccurredAt      time.Time         `json:"occurred_at"`
}
