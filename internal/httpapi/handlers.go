package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnushM55/autoforms-backend/internal/model"
)

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: "Google Forms Quiz System API is running"})
}

func (a *API) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	quiz, err := a.service.Create(r.Context(), request.Title, request.Description, request.Questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, withQuestions(quiz))
}

func (a *API) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	var statusFilter model.QuizStatus
	if value := strings.TrimSpace(r.URL.Query().Get("status")); value != "" {
		statusFilter = model.QuizStatus(strings.ToLower(value))
		if !statusFilter.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status must be one of draft, approved, deleted"})
			return
		}
	}

	quizzes, err := a.service.List(r.Context(), statusFilter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]model.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		response = append(response, withQuestions(quiz))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.service.Get(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withQuestions(quiz))
}

func (a *API) handleApproveQuiz(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request approveQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	quiz, err := a.service.Approve(r.Context(), chi.URLParam(r, "quizID"), request.Recipients)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withQuestions(quiz))
}

func (a *API) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if _, err := a.service.Delete(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
