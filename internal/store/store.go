package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnushM55/autoforms-backend/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		form_id TEXT NOT NULL DEFAULT '',
		form_url TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		options TEXT NOT NULL DEFAULT '[]',
		correct_answer_index INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertQuiz stores a quiz and its questions in a single transaction.
func (s *Store) InsertQuiz(ctx context.Context, q model.Quiz) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quizzes (id, title, description, status, form_id, form_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Description, q.Status, q.FormID, q.FormURL, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for i, question := range q.Questions {
		options, err := json.Marshal(question.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (quiz_id, position, text, options, correct_answer_index)
			 VALUES (?, ?, ?, ?, ?)`,
			q.ID, i, question.Text, string(options), question.CorrectAnswerIndex,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetQuiz returns a quiz by ID with its questions attached.
// Returns sql.ErrNoRows when the ID is unknown; soft-deleted quizzes are
// returned as stored, visibility rules live in the service layer.
func (s *Store) GetQuiz(ctx context.Context, id string) (model.Quiz, error) {
	var q model.Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, status, form_id, form_url, created_at, updated_at
		 FROM quizzes WHERE id = ?`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.Status, &q.FormID, &q.FormURL, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return model.Quiz{}, err
	}
	q.Questions, err = s.getQuestions(ctx, q.ID)
	if err != nil {
		return model.Quiz{}, err
	}
	return q, nil
}

// ListQuizzes returns quizzes in insertion order, always excluding
// soft-deleted ones. A non-empty statusFilter restricts the result to
// exactly that status.
func (s *Store) ListQuizzes(ctx context.Context, statusFilter model.QuizStatus) ([]model.Quiz, error) {
	query := `SELECT id, title, description, status, form_id, form_url, created_at, updated_at
		 FROM quizzes WHERE status != ?`
	args := []any{model.StatusDeleted}
	if statusFilter != "" {
		query += ` AND status = ?`
		args = append(args, statusFilter)
	}
	query += ` ORDER BY rowid`
	return s.queryQuizzes(ctx, query, args...)
}

// ExportAllQuizzes returns every quiz, including soft-deleted ones.
func (s *Store) ExportAllQuizzes(ctx context.Context) ([]model.Quiz, error) {
	return s.queryQuizzes(ctx,
		`SELECT id, title, description, status, form_id, form_url, created_at, updated_at
		 FROM quizzes ORDER BY rowid`)
}

func (s *Store) queryQuizzes(ctx context.Context, query string, args ...any) ([]model.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Status, &q.FormID, &q.FormURL, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].Questions, err = s.getQuestions(ctx, quizzes[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return quizzes, nil
}

func (s *Store) getQuestions(ctx context.Context, quizID string) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, options, correct_answer_index FROM questions WHERE quiz_id = ? ORDER BY position`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options string
		if err := rows.Scan(&q.Text, &options, &q.CorrectAnswerIndex); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for quiz %s: %w", quizID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpdateStatus sets the status and updated_at of a quiz regardless of its
// current state. Returns sql.ErrNoRows when the ID is unknown.
func (s *Store) UpdateStatus(ctx context.Context, id string, status model.QuizStatus, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TransitionStatus updates the status only when the quiz is currently in the
// `from` state. The boolean result reports whether the transition was applied;
// false means another writer moved the quiz first (or the ID is unknown).
func (s *Store) TransitionStatus(ctx context.Context, id string, from, to model.QuizStatus, updatedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, updatedAt, id, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
