package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospection-crm/internal/infra/http/middleware"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

type CalendarHandler struct {
	ScheduleUC *usecase.ScheduleMeetingUseCase
}

func NewCalendarHandler(uc *usecase.ScheduleMeetingUseCase) *CalendarHandler {
	return &CalendarHandler{ScheduleUC: uc}
}

type CreateEventRequest struct {
	usecase.CalendarEventInput
	ProspectID string `json:"prospectId"`
}

// CreateEvent (POST /calendar/{provider}/events) forwards the caller's OAuth
// access token to the provider.
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	token := bearerToken(r)
	if token == "" {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Non authentifié. Veuillez vous connecter à votre calendrier.")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}

	out, err := h.ScheduleUC.Execute(r.Context(), usecase.ScheduleMeetingInput{
		Provider:    provider,
		AccessToken: token,
		ProspectID:  req.ProspectID,
		Event:       req.CalendarEventInput,
	})
	if err != nil {
		middleware.RecordCalendarEvent(provider, "error")
		writeError(w, "calendar_"+provider, err)
		return
	}
	middleware.RecordCalendarEvent(provider, "success")

	writeJSON(w, http.StatusCreated, out)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}
