package model

import (
	"time"
)

// QuizStatus represents the lifecycle state of a quiz.
type QuizStatus string

const (
	// StatusDraft is the initial state of every quiz.
	StatusDraft QuizStatus = "draft"
	// StatusApproved means the quiz was approved and recipients were notified.
	StatusApproved QuizStatus = "approved"
	// StatusDeleted is terminal; deleted quizzes are hidden from readers.
	StatusDeleted QuizStatus = "deleted"
)

// Valid reports whether s is one of the known lifecycle states.
func (s QuizStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusDeleted:
		return true
	}
	return false
}

// Question is a single multiple-choice question owned by a quiz.
// Questions are created together with their quiz and never change afterwards.
type Question struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

// Quiz is the aggregate managed by the lifecycle service.
// FormID and FormURL are either both set or both empty: a quiz created while
// the form provider was unavailable carries no form linkage at all.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      QuizStatus `json:"status"`
	FormID      string     `json:"form_id,omitempty"`
	FormURL     string     `json:"form_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `json:"questions"`
}

// HasForm reports whether the quiz is linked to an external form.
func (q Quiz) HasForm() bool {
	return q.FormURL != ""
}
