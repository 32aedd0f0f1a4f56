package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

type KanbanHandler struct {
	Store  usecase.ProspectLister
	Kanban *usecase.KanbanController
}

func NewKanbanHandler(store usecase.ProspectLister, kanban *usecase.KanbanController) *KanbanHandler {
	return &KanbanHandler{Store: store, Kanban: kanban}
}

type BoardResponse struct {
	Columns []usecase.BoardColumn `json:"columns"`
	Pending string                `json:"pending,omitempty"`
}

func (h *KanbanHandler) Board(w http.ResponseWriter, r *http.Request) {
	pending, _ := h.Kanban.Pending()
	writeJSON(w, http.StatusOK, BoardResponse{
		Columns: usecase.Board(h.Store.Prospects()),
		Pending: pending,
	})
}

// PickUp (POST /kanban/pickup) replaces any previous pending move.
func (h *KanbanHandler) PickUp(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}
	if strings.TrimSpace(input.ID) == "" {
		writeValidationFailed(w, []usecase.ValidationError{{Field: "id", Message: "is required"}})
		return
	}

	h.Kanban.PickUp(input.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{"pending": input.ID})
}

func (h *KanbanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.Kanban.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// Drop (POST /kanban/drop) answers 204 when nothing was picked up.
func (h *KanbanHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status entity.ProspectStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}

	p, err := h.Kanban.Drop(r.Context(), input.Status)
	if err != nil {
		writeError(w, "kanban_drop", err)
		return
	}
	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
