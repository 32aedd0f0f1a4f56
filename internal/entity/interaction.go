package entity

import "time"

type InteractionType string

const (
	InteractionAppel   InteractionType = "appel"
	InteractionEmail   InteractionType = "email"
	InteractionReunion InteractionType = "reunion"
	InteractionSMS     InteractionType = "sms"
	InteractionVisite  InteractionType = "visite"
)

var InteractionTypes = []InteractionType{
	InteractionAppel,
	InteractionEmail,
	InteractionReunion,
	InteractionSMS,
	InteractionVisite,
}

func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Interaction is a logged contact event. Date may lie in the future for
// planned meetings.
type Interaction struct {
	ID    string          `json:"id"`
	Type  InteractionType `json:"type"`
	Date  time.Time       `json:"date"`
	Notes string          `json:"notes"`
	Duree *int            `json:"duree,omitempty"` // minutes
}

func (i Interaction) Clone() Interaction {
	out := i
	if i.Duree != nil {
		d := *i.Duree
		out.Duree = &d
	}
	return out
}

// NewInteraction is the caller-supplied part of an interaction; the owning
// prospect id travels separately.
type NewInteraction struct {
	Type  InteractionType `json:"type"`
	Date  time.Time       `json:"date"`
	Notes string          `json:"notes"`
	Duree *int            `json:"duree,omitempty"`
}
