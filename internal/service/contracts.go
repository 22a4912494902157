package service

import (
	"context"
	"time"

	"github.com/AnushM55/autoforms-backend/internal/model"
)

// FormProvider materializes a quiz as an external survey form.
type FormProvider interface {
	CreateForm(ctx context.Context, title string, questions []model.Question) (formID, formURL string, err error)
}

// Notifier delivers a message to a list of recipients.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// Store is the durable record of quizzes. Implementations must return
// sql.ErrNoRows from GetQuiz and UpdateStatus for unknown IDs and guarantee
// read-after-write visibility within a single instance.
type Store interface {
	InsertQuiz(ctx context.Context, q model.Quiz) error
	GetQuiz(ctx context.Context, id string) (model.Quiz, error)
	ListQuizzes(ctx context.Context, statusFilter model.QuizStatus) ([]model.Quiz, error)
	UpdateStatus(ctx context.Context, id string, status model.QuizStatus, updatedAt time.Time) error
	TransitionStatus(ctx context.Context, id string, from, to model.QuizStatus, updatedAt time.Time) (bool, error)
}
