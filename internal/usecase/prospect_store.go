package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

type StoreState int

const (
	StateUninitialized StoreState = iota
	StateLoading
	StateReady
)

func (s StoreState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// ProspectStore is the in-memory cache of prospects kept in sync with the
// remote store. Every mutation performs one remote call and then commits the
// row the remote store returned; on error the cache is left untouched.
type ProspectStore struct {
	Remote RemoteStore
	Events EventPublisher
	now    func() time.Time

	mu    sync.RWMutex
	state StoreState
	items []entity.Prospect
}

func NewProspectStore(remote RemoteStore, events EventPublisher) *ProspectStore {
	return &ProspectStore{
		Remote: remote,
		Events: events,
		now:    time.Now,
		items:  []entity.Prospect{},
	}
}

// Initialize loads the prospect list once. A load failure is logged and
// leaves the store Ready with an empty list; there is no automatic retry.
func (s *ProspectStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = StateLoading
	s.mu.Unlock()

	items := []entity.Prospect{}
	records, err := s.Remote.ListProspects(ctx, record.DefaultListOrder)
	if err != nil {
		log.Printf("❌ Erreur lors du chargement des prospects: %v", err)
	} else {
		seen := make(map[string]struct{}, len(records))
		for _, r := range records {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			items = append(items, record.ToDomain(r))
		}
		log.Printf("📋 %d prospects chargés", len(items))
	}

	s.mu.Lock()
	s.items = items
	s.state = StateReady
	s.mu.Unlock()
}

func (s *ProspectStore) State() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ProspectStore) IsLoading() bool {
	return s.State() != StateReady
}

// Prospects returns a snapshot of the cache in its current order.
func (s *ProspectStore) Prospects() []entity.Prospect {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Prospect, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

// Get looks a prospect up in the cache only.
func (s *ProspectStore) Get(id string) (*entity.Prospect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, false
	}
	p := s.items[idx].Clone()
	return &p, true
}

// Add inserts a prospect remotely and puts the stored row at the front of
// the list.
func (s *ProspectStore) Add(ctx context.Context, in entity.NewProspect) (*entity.Prospect, error) {
	rec, err := s.Remote.InsertProspect(ctx, record.NewProspectFields(in))
	if err != nil {
		return nil, err
	}
	p := record.ToDomain(*rec)

	s.mu.Lock()
	if idx := s.indexLocked(p.ID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	s.items = append([]entity.Prospect{p}, s.items...)
	s.mu.Unlock()

	s.publish(ctx, entity.PipelineEvent{
		Type:       entity.EventProspectCreated,
		ProspectID: p.ID,
		Nom:        p.Nom,
		Entreprise: p.Entreprise,
		Email:      p.Email,
		ToStatus:   p.Status,
	})

	out := p.Clone()
	return &out, nil
}

// Update sends only the patched columns and replaces the cached item with
// the full row returned by the remote store.
func (s *ProspectStore) Update(ctx context.Context, id string, patch entity.ProspectPatch) (*entity.Prospect, error) {
	rec, err := s.Remote.UpdateProspect(ctx, id, record.ToStorage(patch))
	if err != nil {
		return nil, err
	}
	p := record.ToDomain(*rec)

	s.mu.Lock()
	var from entity.ProspectStatus
	if idx := s.indexLocked(id); idx >= 0 {
		from = s.items[idx].Status
		s.items[idx] = p
	}
	s.mu.Unlock()

	evt := entity.PipelineEvent{
		Type:       entity.EventProspectUpdated,
		ProspectID: p.ID,
		Nom:        p.Nom,
		Entreprise: p.Entreprise,
		Email:      p.Email,
		FromStatus: from,
		ToStatus:   p.Status,
	}
	if from != "" && from != p.Status {
		evt.Type = entity.EventStatusChanged
	}
	s.publish(ctx, evt)

	out := p.Clone()
	return &out, nil
}

// Delete removes the prospect remotely, then from the cache. Nothing is
// removed locally if the remote store refuses.
func (s *ProspectStore) Delete(ctx context.Context, id string) error {
	if err := s.Remote.DeleteProspect(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	var removed entity.Prospect
	if idx := s.indexLocked(id); idx >= 0 {
		removed = s.items[idx]
		s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	}
	s.mu.Unlock()

	s.publish(ctx, entity.PipelineEvent{
		Type:       entity.EventProspectDeleted,
		ProspectID: id,
		Nom:        removed.Nom,
		Entreprise: removed.Entreprise,
		FromStatus: removed.Status,
	})
	return nil
}

// AddInteraction creates the interaction remotely and prepends it to the
// owning prospect. When the prospect is not cached the interaction exists
// remotely but stays invisible until the next load.
func (s *ProspectStore) AddInteraction(ctx context.Context, prospectID string, in entity.NewInteraction) (*entity.Interaction, error) {
	rec, err := s.Remote.InsertInteraction(ctx, record.InteractionFields(prospectID, in))
	if err != nil {
		return nil, err
	}
	it := record.InteractionToDomain(*rec)

	s.mu.Lock()
	var owner entity.Prospect
	if idx := s.indexLocked(prospectID); idx >= 0 {
		prev := s.items[idx].Interactions
		next := make([]entity.Interaction, 0, len(prev)+1)
		next = append(next, it)
		next = append(next, prev...)
		s.items[idx].Interactions = next
		owner = s.items[idx]
	} else {
		log.Printf("⚠️ Interaction %s créée pour un prospect absent du cache (%s)", it.ID, prospectID)
	}
	s.mu.Unlock()

	date := it.Date
	s.publish(ctx, entity.PipelineEvent{
		Type:            entity.EventInteractionAdded,
		ProspectID:      prospectID,
		Nom:             owner.Nom,
		Entreprise:      owner.Entreprise,
		Email:           owner.Email,
		InteractionID:   it.ID,
		InteractionType: it.Type,
		InteractionDate: &date,
	})

	out := it.Clone()
	return &out, nil
}

func (s *ProspectStore) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// publish never fails the caller: the mutation is already committed.
func (s *ProspectStore) publish(ctx context.Context, evt entity.PipelineEvent) {
	if s.Events == nil {
		return
	}
	evt.OccurredAt = s.now().UTC()
	if err := s.Events.PublishPipelineEvent(ctx, evt); err != nil {
		log.Printf("⚠️ CRITICAL: mutation %s validée mais événement non publié: %v", evt.Type, err)
	}
}
