package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/infra/http/middleware"
	"github.com/xavierca1/prospection-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

// writeJSON encodes before writing the header so a value that cannot be
// encoded becomes a 500 rather than a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("❌ Erreur d'encodage de la réponse: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "INTERNAL_ERROR", Message: "Erreur interne"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps use case and store errors onto HTTP statuses. op labels
// remote store failures in the metrics.
func writeError(w http.ResponseWriter, op string, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeNotFound, usecase.CodeUnknownProvider, usecase.CodeNothingToExport:
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrCalendarUnauthorized):
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, entity.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "Prospect introuvable")
	case errors.Is(err, entity.ErrRemoteUnavailable):
		middleware.RecordStoreError(op)
		log.Printf("❌ [%s] %v", op, err)
		writeErrorResponse(w, http.StatusBadGateway, "REMOTE_UNAVAILABLE", "Base de données indisponible, veuillez réessayer")
	default:
		var te *usecase.TechnicalError
		if errors.As(err, &te) {
			status := http.StatusInternalServerError
			if te.Code == usecase.CodeCalendar {
				status = http.StatusBadGateway
			}
			log.Printf("❌ [%s] %v", op, err)
			writeErrorResponse(w, status, te.Code, te.Message)
			return
		}
		log.Printf("❌ [%s] erreur inattendue: %v", op, err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erreur interne")
	}
}

func writeValidationFailed(w http.ResponseWriter, errs []usecase.ValidationError) {
	writeError(w, "validation", usecase.NewValidationFailed(errs))
}
