package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

// GroupByStatus partitions items by status keeping their relative order.
// Every pipeline status is present as a key, even when empty. Items carrying
// a status outside the pipeline keep their own key so nothing is dropped.
func GroupByStatus(items []entity.Prospect) map[entity.ProspectStatus][]entity.Prospect {
	groups := make(map[entity.ProspectStatus][]entity.Prospect, len(entity.PipelineStatuses))
	for _, s := range entity.PipelineStatuses {
		groups[s] = []entity.Prospect{}
	}
	for _, p := range items {
		groups[p.Status] = append(groups[p.Status], p)
	}
	return groups
}

type BoardColumn struct {
	Status     entity.ProspectStatus `json:"status"`
	Label      string                `json:"label"`
	Count      int                   `json:"count"`
	TotalValue float64               `json:"totalValue"`
	Prospects  []entity.Prospect     `json:"prospects"`
}

// Board lays the groups out as columns in pipeline order.
func Board(items []entity.Prospect) []BoardColumn {
	groups := GroupByStatus(items)
	cols := make([]BoardColumn, 0, len(entity.PipelineStatuses))
	for _, s := range entity.PipelineStatuses {
		col := BoardColumn{
			Status:    s,
			Label:     s.Label(),
			Count:     len(groups[s]),
			Prospects: groups[s],
		}
		for _, p := range groups[s] {
			if p.ValeurEstimee != nil {
				col.TotalValue += *p.ValeurEstimee
			}
		}
		cols = append(cols, col)
	}
	return cols
}

// KanbanController turns a drag gesture into a status update. PickUp records
// the pending-move token, Drop consumes it. Only the latest pick-up is kept.
type KanbanController struct {
	Updater StatusUpdater

	mu      sync.Mutex
	pending string
}

func NewKanbanController(updater StatusUpdater) *KanbanController {
	return &KanbanController{Updater: updater}
}

func (k *KanbanController) PickUp(prospectID string) {
	k.mu.Lock()
	k.pending = prospectID
	k.mu.Unlock()
}

func (k *KanbanController) Pending() (string, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pending, k.pending != ""
}

// Cancel drops the pending token without moving anything.
func (k *KanbanController) Cancel() {
	k.PickUp("")
}

// Drop moves the pending prospect to target. Without a pending token it is a
// no-op and returns (nil, nil). The token is consumed whatever the outcome.
// Any status may follow any other.
//
// The token is taken before Update runs rather than cleared after it, so a
// pick-up made while the move is in flight is kept.
func (k *KanbanController) Drop(ctx context.Context, target entity.ProspectStatus) (*entity.Prospect, error) {
	k.mu.Lock()
	id := k.pending
	k.pending = ""
	k.mu.Unlock()

	if id == "" {
		return nil, nil
	}
	if !target.Valid() {
		return nil, NewValidationFailed([]ValidationError{{"status", "is not a pipeline status"}})
	}

	p, err := k.Updater.Update(ctx, id, entity.StatusPatch(target))
	if err != nil {
		log.Printf("❌ Déplacement de %s vers %s refusé: %v", id, target, err)
		return nil, err
	}
	return p, nil
}
