package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/db"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

// SQLiteAssessmentStore implements AssessmentStore on the local database.
type SQLiteAssessmentStore struct {
	db db.DBTX
}

// NewSQLiteAssessmentStore creates a new SQLiteAssessmentStore.
func NewSQLiteAssessmentStore(dbtx db.DBTX) *SQLiteAssessmentStore {
	return &SQLiteAssessmentStore{db: dbtx}
}

func (s *SQLiteAssessmentStore) CreateQuestion(ctx context.Context, q *domain.Question) error {
	query := `INSERT INTO questions (id, text, category, ord) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, q.ID, q.Text, string(q.Category), q.Order)
	if err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}
	return nil
}

// ListQuestions returns the question bank in display order, optionally
// filtered to one category ("" means all).
func (s *SQLiteAssessmentStore) ListQuestions(ctx context.Context, category domain.QuestionCategory) ([]domain.Question, error) {
	query := `SELECT id, text, category, ord FROM questions`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY ord, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			q   domain.Question
			cat string
		)
		if err := rows.Scan(&q.ID, &q.Text, &cat, &q.Order); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		q.Category = domain.QuestionCategory(cat)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return out, nil
}

// CreateResponses writes all responses from one submission. When the
// store sits on a plain *sql.DB the inserts share one transaction, so
// a failed submission leaves no partial assessment behind. Tx-scoped
// stores insert directly; they already run inside a transaction.
func (s *SQLiteAssessmentStore) CreateResponses(ctx context.Context, rs []domain.UserResponse) error {
	if database, ok := s.db.(*sql.DB); ok {
		uow := db.NewSQLiteUnitOfWork(database)
		return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return insertResponses(ctx, tx, rs)
		})
	}
	return insertResponses(ctx, s.db, rs)
}

func insertResponses(ctx context.Context, dbtx db.DBTX, rs []domain.UserResponse) error {
	query := `INSERT INTO user_responses (id, kid_profile_id, question_id, answer, asked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	for i := range rs {
		r := &rs[i]
		_, err := dbtx.ExecContext(ctx, query,
			r.ID, r.KidProfileID, r.QuestionID, r.Answer,
			r.AskedAt.Format(time.RFC3339Nano), r.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting user response: %w", err)
		}
	}
	return nil
}

func (s *SQLiteAssessmentStore) ListResponses(ctx context.Context, kidProfileID string) ([]domain.UserResponse, error) {
	query := `SELECT id, kid_profile_id, question_id, answer, asked_at, created_at
		FROM user_responses WHERE kid_profile_id = ?
		ORDER BY asked_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, kidProfileID)
	if err != nil {
		return nil, fmt.Errorf("listing user responses: %w", err)
	}
	defer rows.Close()

	var out []domain.UserResponse
	for rows.Next() {
		var (
			r         domain.UserResponse
			askedAt   string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.KidProfileID, &r.QuestionID, &r.Answer,
			&askedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning user response: %w", err)
		}
		r.AskedAt, _ = time.Parse(time.RFC3339Nano, askedAt)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing user responses: %w", err)
	}
	return out, nil
}
