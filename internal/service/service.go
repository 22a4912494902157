package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnushM55/autoforms-backend/internal/model"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidQuestion = errors.New("invalid question")
	ErrNotDraft        = errors.New("only draft quizzes can be approved")
	ErrMissingFormURL  = errors.New("quiz does not have a form URL")
	ErrNoRecipients    = errors.New("at least one recipient is required")
	ErrBadRecipient    = errors.New("invalid recipient address")
	ErrDeliveryFailed  = errors.New("failed to send email notifications")
)

// Service orchestrates the quiz lifecycle: creation with external form
// materialization, listing, approval with email notification, and soft delete.
type Service struct {
	store    Store
	forms    FormProvider
	notifier Notifier
}

// New creates a lifecycle service. forms may be nil when no provider is
// configured; quizzes are then created without form linkage.
func New(store Store, forms FormProvider, notifier Notifier) *Service {
	return &Service{
		store:    store,
		forms:    forms,
		notifier: notifier,
	}
}

// Create validates the input, tries to materialize an external form, and
// persists a new draft quiz. A provider failure is logged and recovered:
// the quiz is stored without form linkage and creation still succeeds.
func (s *Service) Create(ctx context.Context, title, description string, questions []model.Question) (model.Quiz, error) {
	if strings.TrimSpace(title) == "" {
		return model.Quiz{}, ErrEmptyTitle
	}
	if err := validateQuestions(questions); err != nil {
		return model.Quiz{}, err
	}

	var formID, formURL string
	if s.forms == nil {
		slog.Debug("form provider not configured, creating quiz without form")
	} else {
		id, url, err := s.forms.CreateForm(ctx, title, questions)
		if err != nil {
			slog.Error("form creation failed, storing quiz without form linkage", "title", title, "error", err)
		} else {
			formID, formURL = id, url
		}
	}

	now := time.Now().UTC()
	quiz := model.Quiz{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      model.StatusDraft,
		FormID:      formID,
		FormURL:     formURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		Questions:   questions,
	}
	if err := s.store.InsertQuiz(ctx, quiz); err != nil {
		return model.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	slog.Info("quiz created", "quiz_id", quiz.ID, "title", quiz.Title, "has_form", quiz.HasForm())
	return quiz, nil
}

// List returns all quizzes except soft-deleted ones, in insertion order.
// A non-empty statusFilter restricts the result to exactly that status, so
// filtering for deleted yields an empty list.
func (s *Service) List(ctx context.Context, statusFilter model.QuizStatus) ([]model.Quiz, error) {
	return s.store.ListQuizzes(ctx, statusFilter)
}

// Get returns a quiz by ID. Soft-deleted quizzes behave as nonexistent.
func (s *Service) Get(ctx context.Context, id string) (model.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quiz{}, ErrQuizNotFound
	}
	if err != nil {
		return model.Quiz{}, err
	}
	if quiz.Status == model.StatusDeleted {
		return model.Quiz{}, ErrQuizNotFound
	}
	return quiz, nil
}

// Approve notifies the recipients about the quiz and transitions it from
// draft to approved. The status change is applied only after delivery
// succeeds, so a failed send leaves the quiz in draft. The transition itself
// is conditional on the status still being draft, so of two concurrent
// approvals only one wins; the loser gets ErrNotDraft.
func (s *Service) Approve(ctx context.Context, id string, recipients []string) (model.Quiz, error) {
	if len(recipients) == 0 {
		return model.Quiz{}, ErrNoRecipients
	}
	for _, r := range recipients {
		if _, err := mail.ParseAddress(r); err != nil {
			return model.Quiz{}, fmt.Errorf("%w: %q", ErrBadRecipient, r)
		}
	}

	quiz, err := s.Get(ctx, id)
	if err != nil {
		return model.Quiz{}, err
	}
	if quiz.Status != model.StatusDraft {
		return model.Quiz{}, ErrNotDraft
	}
	if !quiz.HasForm() {
		return model.Quiz{}, ErrMissingFormURL
	}

	subject := "Quiz Invitation: " + quiz.Title
	if err := s.notifier.Send(ctx, recipients, subject, invitationBody(quiz.Title, quiz.FormURL)); err != nil {
		slog.Error("notification delivery failed", "quiz_id", id, "recipients", len(recipients), "error", err)
		return model.Quiz{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	ok, err := s.store.TransitionStatus(ctx, id, model.StatusDraft, model.StatusApproved, time.Now().UTC())
	if err != nil {
		return model.Quiz{}, fmt.Errorf("update status: %w", err)
	}
	if !ok {
		return model.Quiz{}, ErrNotDraft
	}
	slog.Info("quiz approved", "quiz_id", id, "recipients", len(recipients))
	return s.Get(ctx, id)
}

// Delete marks a quiz as deleted. Re-deleting an already-deleted quiz is
// allowed and keeps it deleted; only an unknown ID is an error.
func (s *Service) Delete(ctx context.Context, id string) (model.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quiz{}, ErrQuizNotFound
	}
	if err != nil {
		return model.Quiz{}, err
	}

	now := time.Now().UTC()
	if err := s.store.UpdateStatus(ctx, id, model.StatusDeleted, now); err != nil {
		return model.Quiz{}, fmt.Errorf("update status: %w", err)
	}
	quiz.Status = model.StatusDeleted
	quiz.UpdatedAt = now
	slog.Info("quiz deleted", "quiz_id", id)
	return quiz, nil
}

func validateQuestions(questions []model.Question) error {
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has empty text", ErrInvalidQuestion, i)
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct_answer_index %d out of range for %d options",
				ErrInvalidQuestion, i, q.CorrectAnswerIndex, len(q.Options))
		}
	}
	return nil
}

func invitationBody(title, formURL string) string {
	var sb strings.Builder
	sb.WriteString("Hello,\n\n")
	sb.WriteString(fmt.Sprintf("You have been invited to take the quiz %q.\n\n", title))
	sb.WriteString("Access the quiz here: " + formURL + "\n\n")
	sb.WriteString("Thank you!\n")
	return sb.String()
}
