// Package memstore is a process-local remote store used for demos and
// tests. It applies the same partial-row semantics as the SQL backends.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

type Store struct {
	mu        sync.Mutex
	prospects map[string]*record.ProspectRecord
	now       func() time.Time
	newID     func() string
}

func New() *Store {
	return &Store{
		prospects: make(map[string]*record.ProspectRecord),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *Store) ListProspects(_ context.Context, order record.ListOrder) ([]record.ProspectRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record.ProspectRecord, 0, len(s.prospects))
	for _, p := range s.prospects {
		c := clone(*p)
		sortInteractions(c.Interactions, order.Interactions)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessProspect(out[i], out[j], order.Prospects)
	})
	return out, nil
}

func (s *Store) InsertProspect(_ context.Context, fields record.Fields) (*record.ProspectRecord, error) {
	r := record.ProspectRecord{
		ID:           s.newID(),
		Status:       string(entity.StatusNouveau),
		DateCreation: s.now().UTC(),
		Interactions: []record.InteractionRecord{},
	}
	if err := fields.ApplyTo(&r); err != nil {
		return nil, fmt.Errorf("insert prospect: %w", err)
	}

	s.mu.Lock()
	s.prospects[r.ID] = &r
	s.mu.Unlock()

	out := clone(r)
	return &out, nil
}

func (s *Store) UpdateProspect(_ context.Context, id string, fields record.Fields) (*record.ProspectRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}

	next := clone(*p)
	if err := fields.ApplyTo(&next); err != nil {
		return nil, fmt.Errorf("update prospect: %w", err)
	}
	s.prospects[id] = &next

	out := clone(next)
	sortInteractions(out.Interactions, record.DefaultListOrder.Interactions)
	return &out, nil
}

// DeleteProspect drops the prospect together with its interactions.
func (s *Store) DeleteProspect(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prospects[id]; !ok {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	delete(s.prospects, id)
	return nil
}

func (s *Store) InsertInteraction(_ context.Context, fields record.Fields) (*record.InteractionRecord, error) {
	it := record.NewInteractionRecord(s.newID(), fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[it.ProspectID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, it.ProspectID)
	}
	p.Interactions = append(p.Interactions, it)

	out := it
	return &out, nil
}

func clone(r record.ProspectRecord) record.ProspectRecord {
	out := r
	if r.ValeurEstimee != nil {
		v := *r.ValeurEstimee
		out.ValeurEstimee = &v
	}
	out.Interactions = make([]record.InteractionRecord, len(r.Interactions))
	copy(out.Interactions, r.Interactions)
	return out
}

func lessProspect(a, b record.ProspectRecord, o record.Order) bool {
	var less, greater bool
	switch o.Column {
	case record.ColNom:
		less, greater = strings.ToLower(a.Nom) < strings.ToLower(b.Nom), strings.ToLower(a.Nom) > strings.ToLower(b.Nom)
	case record.ColEntreprise:
		less, greater = strings.ToLower(a.Entreprise) < strings.ToLower(b.Entreprise), strings.ToLower(a.Entreprise) > strings.ToLower(b.Entreprise)
	case record.ColStatus:
		less, greater = a.Status < b.Status, a.Status > b.Status
	default:
		less, greater = a.DateCreation.Before(b.DateCreation), a.DateCreation.After(b.DateCreation)
	}
	if o.Descending {
		return greater
	}
	return less
}

func sortInteractions(items []record.InteractionRecord, o record.Order) {
	sort.SliceStable(items, func(i, j int) bool {
		if o.Descending {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].Date.Before(items[j].Date)
	})
}

// ExportState returns a copy of every stored prospect in creation order.
func (s *Store) ExportState() []record.ProspectRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record.ProspectRecord, 0, len(s.prospects))
	for _, p := range s.prospects {
		out = append(out, clone(*p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateCreation.Before(out[j].DateCreation)
	})
	return out
}

// ImportState replaces the stored prospects with items.
func (s *Store) ImportState(items []record.ProspectRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prospects = make(map[string]*record.ProspectRecord, len(items))
	for _, p := range items {
		c := clone(p)
		if c.Interactions == nil {
			c.Interactions = []record.InteractionRecord{}
		}
		s.prospects[c.ID] = &c
	}
}
