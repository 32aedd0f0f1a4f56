package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/prospection-crm/internal/usecase"
)

type ValidationHandler struct{}

func NewValidationHandler() *ValidationHandler {
	return &ValidationHandler{}
}

type ValidationResponse struct {
	Email     *usecase.ValidationResult `json:"email,omitempty"`
	Telephone *usecase.ValidationResult `json:"telephone,omitempty"`
}

// Handle checks the fields present in the body as a form would while typing.
func (h *ValidationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     *string `json:"email"`
		Telephone *string `json:"telephone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON invalide")
		return
	}

	if input.Email == nil && input.Telephone == nil {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email ou telephone requis")
		return
	}

	var resp ValidationResponse
	if input.Email != nil {
		res := usecase.ValidateEmail(*input.Email)
		resp.Email = &res
	}
	if input.Telephone != nil {
		res := usecase.ValidatePhone(*input.Telephone)
		resp.Telephone = &res
	}

	writeJSON(w, http.StatusOK, resp)
}
