package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnushM55/autoforms-backend/internal/model"
	"github.com/AnushM55/autoforms-backend/internal/service"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found"})
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrInvalidQuestion),
		errors.Is(err, service.ErrNotDraft),
		errors.Is(err, service.ErrMissingFormURL),
		errors.Is(err, service.ErrNoRecipients),
		errors.Is(err, service.ErrBadRecipient):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrDeliveryFailed):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to send email notifications"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// withQuestions ensures the questions field marshals as an array, never null.
func withQuestions(q model.Quiz) model.Quiz {
	if q.Questions == nil {
		q.Questions = []model.Question{}
	}
	return q
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
