package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/db"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

// milestoneColumns is the canonical SELECT column list for milestone_tasks.
const milestoneColumns = `id, record_type, kid_profile_id, parent_id, title,
		overview, description, strategies, status,
		parent_feedback, sentiment, feedback_at, created_at, updated_at`

// SQLiteMilestoneStore implements MilestoneStore on the local database.
// Milestones and tasks share the milestone_tasks table, disambiguated by
// the record_type column, mirroring the remote service's single record
// type.
type SQLiteMilestoneStore struct {
	db db.DBTX

	// PageSize bounds list pages; tests shrink it to exercise the
	// continuation-token loop.
	PageSize int
}

// NewSQLiteMilestoneStore creates a new SQLiteMilestoneStore.
func NewSQLiteMilestoneStore(dbtx db.DBTX) *SQLiteMilestoneStore {
	return &SQLiteMilestoneStore{db: dbtx, PageSize: defaultPageSize}
}

func (s *SQLiteMilestoneStore) CreateMilestone(ctx context.Context, m *domain.Milestone) error {
	query := `INSERT INTO milestone_tasks (` + milestoneColumns + `)
		VALUES (?, 'MILESTONE', ?, '', ?, ?, '', '', ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		m.ID,
		m.KidProfileID,
		m.Title,
		m.Overview,
		string(m.Status),
		m.ParentFeedback,
		string(m.Sentiment),
		nullableTimeToString(m.FeedbackAt, time.RFC3339),
		m.CreatedAt.Format(time.RFC3339Nano),
		m.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (s *SQLiteMilestoneStore) GetMilestone(ctx context.Context, id string) (*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestone_tasks
		WHERE id = ? AND record_type = 'MILESTONE'`
	row := s.db.QueryRowContext(ctx, query, id)
	return scanMilestone(row)
}

func (s *SQLiteMilestoneStore) ListMilestones(ctx context.Context, kidProfileID, pageToken string) ([]domain.Milestone, string, error) {
	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	query := `SELECT ` + milestoneColumns + ` FROM milestone_tasks
		WHERE kid_profile_id = ? AND record_type = 'MILESTONE'
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, kidProfileID, s.PageSize+1, offset)
	if err != nil {
		return nil, "", fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var out []domain.Milestone
	for rows.Next() {
		m, err := scanMilestoneRow(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("listing milestones: %w", err)
	}

	next := ""
	if len(out) > s.PageSize {
		out = out[:s.PageSize]
		next = encodePageToken(offset + s.PageSize)
	}
	return out, next, nil
}

func (s *SQLiteMilestoneStore) UpdateMilestone(ctx context.Context, m *domain.Milestone) error {
	query := `UPDATE milestone_tasks SET
		title = ?, overview = ?, status = ?,
		parent_feedback = ?, sentiment = ?, feedback_at = ?, updated_at = ?
		WHERE id = ? AND record_type = 'MILESTONE'`
	res, err := s.db.ExecContext(ctx, query,
		m.Title,
		m.Overview,
		string(m.Status),
		m.ParentFeedback,
		string(m.Sentiment),
		nullableTimeToString(m.FeedbackAt, time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339Nano),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteMilestoneStore) DeleteMilestone(ctx context.Context, id string) error {
	// Tasks reference milestones through parent_id, not a foreign key;
	// remove them explicitly so no orphans remain.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM milestone_tasks WHERE parent_id = ? AND record_type = 'TASK'`, id); err != nil {
		return fmt.Errorf("deleting milestone tasks: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM milestone_tasks WHERE id = ? AND record_type = 'MILESTONE'`, id); err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	return nil
}

func (s *SQLiteMilestoneStore) CreateTask(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO milestone_tasks (` + milestoneColumns + `)
		VALUES (?, 'TASK', ?, ?, ?, '', ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.KidProfileID,
		t.MilestoneID,
		t.Title,
		t.Description,
		t.Strategies,
		string(t.Status),
		t.ParentFeedback,
		string(t.Sentiment),
		nullableTimeToString(t.FeedbackAt, time.RFC3339),
		t.CreatedAt.Format(time.RFC3339Nano),
		t.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (s *SQLiteMilestoneStore) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestone_tasks
		WHERE id = ? AND record_type = 'TASK'`
	row := s.db.QueryRowContext(ctx, query, id)
	return scanTask(row)
}

func (s *SQLiteMilestoneStore) ListTasks(ctx context.Context, kidProfileID, pageToken string) ([]domain.Task, string, error) {
	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	// Insertion order; tasks carry no explicit sort key.
	query := `SELECT ` + milestoneColumns + ` FROM milestone_tasks
		WHERE kid_profile_id = ? AND record_type = 'TASK'
		ORDER BY created_at, id
		LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, kidProfileID, s.PageSize+1, offset)
	if err != nil {
		return nil, "", fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("listing tasks: %w", err)
	}

	next := ""
	if len(out) > s.PageSize {
		out = out[:s.PageSize]
		next = encodePageToken(offset + s.PageSize)
	}
	return out, next, nil
}

func (s *SQLiteMilestoneStore) UpdateTask(ctx context.Context, t *domain.Task) error {
	query := `UPDATE milestone_tasks SET
		title = ?, description = ?, strategies = ?, status = ?,
		parent_feedback = ?, sentiment = ?, feedback_at = ?, updated_at = ?
		WHERE id = ? AND record_type = 'TASK'`
	res, err := s.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.Strategies,
		string(t.Status),
		t.ParentFeedback,
		string(t.Sentiment),
		nullableTimeToString(t.FeedbackAt, time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339Nano),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteMilestoneStore) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM milestone_tasks WHERE id = ? AND record_type = 'TASK'`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// ── scanning ────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

type milestoneTaskRow struct {
	id, recordType, kidProfileID, parentID    string
	title, overview, description, strategies  string
	status, parentFeedback, sentiment         string
	feedbackAt                                sql.NullString
	createdAt, updatedAt                      string
}

func scanMilestoneTaskRow(r rowScanner) (*milestoneTaskRow, error) {
	var row milestoneTaskRow
	err := r.Scan(
		&row.id, &row.recordType, &row.kidProfileID, &row.parentID,
		&row.title, &row.overview, &row.description, &row.strategies,
		&row.status, &row.parentFeedback, &row.sentiment,
		&row.feedbackAt, &row.createdAt, &row.updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning milestone task row: %w", err)
	}
	return &row, nil
}

func (row *milestoneTaskRow) times() (created, updated time.Time) {
	created, _ = time.Parse(time.RFC3339Nano, row.createdAt)
	updated, _ = time.Parse(time.RFC3339Nano, row.updatedAt)
	return created, updated
}

func scanMilestone(r rowScanner) (*domain.Milestone, error) {
	row, err := scanMilestoneTaskRow(r)
	if err != nil {
		return nil, err
	}
	created, updated := row.times()
	return &domain.Milestone{
		ID:             row.id,
		KidProfileID:   row.kidProfileID,
		Title:          row.title,
		Overview:       row.overview,
		Status:         domain.MilestoneStatus(row.status),
		ParentFeedback: row.parentFeedback,
		Sentiment:      domain.Sentiment(row.sentiment),
		FeedbackAt:     parseNullableTime(row.feedbackAt, time.RFC3339),
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}

func scanMilestoneRow(rows *sql.Rows) (*domain.Milestone, error) {
	return scanMilestone(rows)
}

func scanTask(r rowScanner) (*domain.Task, error) {
	row, err := scanMilestoneTaskRow(r)
	if err != nil {
		return nil, err
	}
	created, updated := row.times()
	return &domain.Task{
		ID:             row.id,
		MilestoneID:    row.parentID,
		KidProfileID:   row.kidProfileID,
		Title:          row.title,
		Description:    row.description,
		Strategies:     row.strategies,
		Status:         domain.MilestoneStatus(row.status),
		ParentFeedback: row.parentFeedback,
		Sentiment:      domain.Sentiment(row.sentiment),
		FeedbackAt:     parseNullableTime(row.feedbackAt, time.RFC3339),
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}

func scanTaskRow(rows *sql.Rows) (*domain.Task, error) {
	return scanTask(rows)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
