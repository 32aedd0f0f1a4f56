package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

type ProspectHandler struct {
	Store *usecase.ProspectStore
}

func NewProspectHandler(store *usecase.ProspectStore) *ProspectHandler {
	return &ProspectHandler{Store: store}
}

type ListProspectsResponse struct {
	Prospects []entity.Prospect `json:"prospects"`
	IsLoading bool              `json:"isLoading"`
}

// List (GET /prospects?sort=nom&order=desc)
func (h *ProspectHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Store.Prospects()

	if sort := r.URL.Query().Get("sort"); sort != "" {
		field, ok := usecase.ParseSortField(sort)
		if !ok {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_SORT", "Tri inconnu: "+sort)
			return
		}
		items = usecase.SortProspects(items, field, usecase.ParseSortOrder(r.URL.Query().Get("order")))
	}

	writeJSON(w, http.StatusOK, ListProspectsResponse{
		Prospects: items,
		IsLoading: h.Store.IsLoading(),
	})
}

func (h *ProspectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.NewProspect
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}

	if errs := usecase.ValidateNewProspect(input); len(errs) > 0 {
		writeValidationFailed(w, errs)
		return
	}

	p, err := h.Store.Add(r.Context(), input)
	if err != nil {
		writeError(w, "add_prospect", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Get only looks at the loaded list; a prospect created elsewhere since the
// last load is not found.
func (h *ProspectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "Prospect introuvable")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProspectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.ProspectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}

	if errs := usecase.ValidatePatch(patch); len(errs) > 0 {
		writeValidationFailed(w, errs)
		return
	}

	p, err := h.Store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, "update_prospect", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProspectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete_prospect", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProspectHandler) AddInteraction(w http.ResponseWriter, r *http.Request) {
	var input entity.NewInteraction
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}

	if errs := usecase.ValidateInteraction(input); len(errs) > 0 {
		writeValidationFailed(w, errs)
		return
	}

	it, err := h.Store.AddInteraction(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, "add_interaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// Stats (GET /stats)
func (h *ProspectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usecase.ComputeStats(h.Store.Prospects()))
}
