package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type ProspectStatus string

const (
	StatusNouveau       ProspectStatus = "nouveau"
	StatusContact       ProspectStatus = "contact"
	StatusQualification ProspectStatus = "qualification"
	StatusProposition   ProspectStatus = "proposition"
	StatusNegociation   ProspectStatus = "negociation"
	StatusConclu        ProspectStatus = "conclu"
	StatusPerdu         ProspectStatus = "perdu"
)

// PipelineStatuses lists every stage in board order.
var PipelineStatuses = []ProspectStatus{
	StatusNouveau,
	StatusContact,
	StatusQualification,
	StatusProposition,
	StatusNegociation,
	StatusConclu,
	StatusPerdu,
}

var StatusLabels = map[ProspectStatus]string{
	StatusNouveau:       "Nouveau",
	StatusContact:       "Contact établi",
	StatusQualification: "Qualification",
	StatusProposition:   "Proposition",
	StatusNegociation:   "Négociation",
	StatusConclu:        "Conclu",
	StatusPerdu:         "Perdu",
}

func (s ProspectStatus) Valid() bool {
	_, ok := StatusLabels[s]
	return ok
}

func (s ProspectStatus) Label() string {
	if l, ok := StatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Prospect is a sales contact tracked through the pipeline. Interactions are
// owned by the prospect and never shared between prospects.
type Prospect struct {
	ID            string         `json:"id"`
	Nom           string         `json:"nom"`
	Entreprise    string         `json:"entreprise"`
	Email         string         `json:"email"`
	Telephone     string         `json:"telephone"`
	Adresse       string         `json:"adresse"`
	Status        ProspectStatus `json:"status"`
	ValeurEstimee *float64       `json:"valeurEstimee,omitempty"` // montant potentiel
	DateCreation  time.Time      `json:"dateCreation"`
	Interactions  []Interaction  `json:"interactions"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Prospect) Clone() Prospect {
	out := p
	if p.ValeurEstimee != nil {
		v := *p.ValeurEstimee
		out.ValeurEstimee = &v
	}
	out.Interactions = make([]Interaction, len(p.Interactions))
	for i, it := range p.Interactions {
		out.Interactions[i] = it.Clone()
	}
	return out
}

// NewProspect carries the fields a caller supplies at creation time. The id
// is assigned by the remote store.
type NewProspect struct {
	Nom           string         `json:"nom"`
	Entreprise    string         `json:"entreprise"`
	Email         string         `json:"email"`
	Telephone     string         `json:"telephone"`
	Adresse       string         `json:"adresse"`
	Status        ProspectStatus `json:"status"`
	ValeurEstimee *float64       `json:"valeurEstimee,omitempty"`
	DateCreation  *time.Time     `json:"dateCreation,omitempty"`
}

// ProspectPatch is a partial update. Nil pointers are left untouched;
// ValeurEstimee distinguishes "untouched" from "cleared".
type ProspectPatch struct {
	Nom           *string           `json:"nom,omitempty"`
	Entreprise    *string           `json:"entreprise,omitempty"`
	Email         *string           `json:"email,omitempty"`
	Telephone     *string           `json:"telephone,omitempty"`
	Adresse       *string           `json:"adresse,omitempty"`
	Status        *ProspectStatus   `json:"status,omitempty"`
	ValeurEstimee Optional[float64] `json:"valeurEstimee"`
}

// IsEmpty reports whether the patch would change nothing.
func (p ProspectPatch) IsEmpty() bool {
	return p.Nom == nil && p.Entreprise == nil && p.Email == nil &&
		p.Telephone == nil && p.Adresse == nil && p.Status == nil &&
		!p.ValeurEstimee.Present
}

// StatusPatch is the patch the kanban board issues on a drop.
func StatusPatch(s ProspectStatus) ProspectPatch {
	return ProspectPatch{Status: &s}
}

// Optional is a tri-state patch field: absent, explicitly cleared (Present
// with a nil Value) or set.
type Optional[T any] struct {
	Present bool
	Value   *T
}

func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

func Clear[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// UnmarshalJSON is only invoked when the key exists in the payload, which is
// what lets a JSON null mean "clear" while a missing key means "untouched".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("optional value: %w", err)
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
