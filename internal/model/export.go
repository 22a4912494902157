package model

import "time"

// QuizExport is the top-level structure written by the export command.
// Unlike the HTTP API, the export includes soft-deleted quizzes so that
// the dump is a complete audit record of the database.
type QuizExport struct {
	ExportedAt time.Time `json:"exported_at"`
	QuizCount  int       `json:"quiz_count"`
	Quizzes    []Quiz    `json:"quizzes"`
}
