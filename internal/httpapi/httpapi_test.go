package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnushM55/autoforms-backend/internal/httpapi"
	"github.com/AnushM55/autoforms-backend/internal/model"
	"github.com/AnushM55/autoforms-backend/internal/service"
	"github.com/AnushM55/autoforms-backend/internal/store"
)

type fakeProvider struct {
	formID  string
	formURL string
	err     error
}

func (f *fakeProvider) CreateForm(_ context.Context, _ string, _ []model.Question) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.formID, f.formURL, nil
}

type fakeNotifier struct {
	err        error
	recipients []string
}

func (f *fakeNotifier) Send(_ context.Context, recipients []string, _, _ string) error {
	f.recipients = recipients
	return f.err
}

func newTestRouter(t *testing.T, provider service.FormProvider, notifier service.Notifier) http.Handler {
	t.Helper()
	s, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return httpapi.NewRouter(service.New(s, provider, notifier))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeQuiz(t *testing.T, rec *httptest.ResponseRecorder) model.Quiz {
	t.Helper()
	var quiz model.Quiz
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quiz))
	return quiz
}

func createCapitals(t *testing.T, router http.Handler) model.Quiz {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/quizzes/", map[string]any{
		"title": "Capitals",
		"questions": []map[string]any{
			{
				"text":                 "What is the capital of France?",
				"options":              []string{"Paris", "Lyon"},
				"correct_answer_index": 0,
			},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeQuiz(t, rec)
}

func TestRoot(t *testing.T) {
	router := newTestRouter(t, nil, &fakeNotifier{})

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestCreateQuiz(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{formID: "f1", formURL: "https://forms.example/f1"}, &fakeNotifier{})

	quiz := createCapitals(t, router)
	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, model.StatusDraft, quiz.Status)
	assert.Equal(t, "https://forms.example/f1", quiz.FormURL)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 0, quiz.Questions[0].CorrectAnswerIndex)
}

func TestCreateQuiz_BadRequests(t *testing.T) {
	router := newTestRouter(t, nil, &fakeNotifier{})

	rec := doJSON(t, router, http.MethodPost, "/quizzes/", map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/quizzes/", map[string]any{
		"title": "Quiz",
		"questions": []map[string]any{
			{"text": "Q", "options": []string{"A", "B"}, "correct_answer_index": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/quizzes/", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetQuiz(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{formID: "f1", formURL: "https://forms.example/f1"}, &fakeNotifier{})

	created := createCapitals(t, router)

	rec := doJSON(t, router, http.MethodGet, "/quizzes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeQuiz(t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Capitals", got.Title)

	rec = doJSON(t, router, http.MethodGet, "/quizzes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListQuizzes(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{formID: "f1", formURL: "https://forms.example/f1"}, &fakeNotifier{})

	first := createCapitals(t, router)
	second := createCapitals(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/quizzes/"+second.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/quizzes/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quizzes []model.Quiz
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quizzes))
	require.Len(t, quizzes, 1)
	assert.Equal(t, first.ID, quizzes[0].ID)

	// Deleted quizzes stay hidden even when asked for explicitly.
	rec = doJSON(t, router, http.MethodGet, "/quizzes/?status=deleted", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	quizzes = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quizzes))
	assert.Empty(t, quizzes)

	rec = doJSON(t, router, http.MethodGet, "/quizzes/?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveQuiz(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(t, &fakeProvider{formID: "f1", formURL: "https://forms.example/f1"}, notifier)

	quiz := createCapitals(t, router)

	rec := doJSON(t, router, http.MethodPost, "/quizzes/"+quiz.ID+"/approve", map[string]any{
		"recipients": []string{"alice@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	approved := decodeQuiz(t, rec)
	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Equal(t, []string{"alice@example.com"}, notifier.recipients)

	// Approving again fails: no longer a draft.
	rec = doJSON(t, router, http.MethodPost, "/quizzes/"+quiz.ID+"/approve", map[string]any{
		"recipients": []string{"alice@example.com"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "draft")
}

func TestApproveQuiz_MissingFormURL(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{err: errors.New("forms API down")}, &fakeNotifier{})

	quiz := createCapitals(t, router)
	assert.Empty(t, quiz.FormURL)

	rec := doJSON(t, router, http.MethodPost, "/quizzes/"+quiz.ID+"/approve", map[string]any{
		"recipients": []string{"alice@example.com"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Status unchanged on subsequent read.
	rec = doJSON(t, router, http.MethodGet, "/quizzes/"+quiz.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusDraft, decodeQuiz(t, rec).Status)
}

func TestApproveQuiz_DeliveryFailure(t *testing.T) {
	router := newTestRouter(t,
		&fakeProvider{formID: "f1", formURL: "https://forms.example/f1"},
		&fakeNotifier{err: errors.New("SMTP refused")},
	)

	quiz := createCapitals(t, router)

	rec := doJSON(t, router, http.MethodPost, "/quizzes/"+quiz.ID+"/approve", map[string]any{
		"recipients": []string{"alice@example.com"},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/quizzes/"+quiz.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusDraft, decodeQuiz(t, rec).Status)
}

func TestApproveQuiz_NotFound(t *testing.T) {
	router := newTestRouter(t, nil, &fakeNotifier{})

	rec := doJSON(t, router, http.MethodPost, "/quizzes/missing/approve", map[string]any{
		"recipients": []string{"alice@example.com"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteQuiz(t *testing.T) {
	router := newTestRouter(t, &fakeProvider{formID: "f1", formURL: "https://forms.example/f1"}, &fakeNotifier{})

	quiz := createCapitals(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/quizzes/"+quiz.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// Deleted quizzes read as missing.
	rec = doJSON(t, router, http.MethodGet, "/quizzes/"+quiz.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Re-deleting is allowed.
	rec = doJSON(t, router, http.MethodDelete, "/quizzes/"+quiz.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/quizzes/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
