package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/db"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

const kidProfileColumns = `id, name, dob, age_years, has_diagnosis,
		parent_id, team_id, created_at, updated_at`

// SQLiteKidProfileStore implements KidProfileStore on the local database.
type SQLiteKidProfileStore struct {
	db db.DBTX
}

// NewSQLiteKidProfileStore creates a new SQLiteKidProfileStore.
func NewSQLiteKidProfileStore(dbtx db.DBTX) *SQLiteKidProfileStore {
	return &SQLiteKidProfileStore{db: dbtx}
}

func (s *SQLiteKidProfileStore) CreateProfile(ctx context.Context, p *domain.KidProfile) error {
	query := `INSERT INTO kid_profiles (` + kidProfileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		nullableTimeToString(p.DOB, "2006-01-02"),
		p.AgeYears,
		boolToInt(p.HasDiagnosis),
		p.ParentID,
		p.TeamID,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting kid profile: %w", err)
	}
	return nil
}

func (s *SQLiteKidProfileStore) GetProfile(ctx context.Context, id string) (*domain.KidProfile, error) {
	query := `SELECT ` + kidProfileColumns + ` FROM kid_profiles WHERE id = ?`
	return scanKidProfile(s.db.QueryRowContext(ctx, query, id))
}

func (s *SQLiteKidProfileStore) ListProfilesByParent(ctx context.Context, parentID string) ([]*domain.KidProfile, error) {
	query := `SELECT ` + kidProfileColumns + ` FROM kid_profiles
		WHERE parent_id = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing kid profiles: %w", err)
	}
	defer rows.Close()

	var out []*domain.KidProfile
	for rows.Next() {
		p, err := scanKidProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing kid profiles: %w", err)
	}
	return out, nil
}

func (s *SQLiteKidProfileStore) UpdateProfile(ctx context.Context, p *domain.KidProfile) error {
	query := `UPDATE kid_profiles SET
		name = ?, dob = ?, age_years = ?, has_diagnosis = ?, team_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		p.Name,
		nullableTimeToString(p.DOB, "2006-01-02"),
		p.AgeYears,
		boolToInt(p.HasDiagnosis),
		p.TeamID,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating kid profile: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteKidProfileStore) DeleteProfile(ctx context.Context, id string) error {
	// Milestones, tasks and responses hang off the profile without
	// foreign keys; remove them explicitly so no orphans remain.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM milestone_tasks WHERE kid_profile_id = ?`, id); err != nil {
		return fmt.Errorf("deleting profile records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM user_responses WHERE kid_profile_id = ?`, id); err != nil {
		return fmt.Errorf("deleting profile responses: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kid_profiles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting kid profile: %w", err)
	}
	return nil
}

func scanKidProfile(r rowScanner) (*domain.KidProfile, error) {
	var (
		p            domain.KidProfile
		dob          sql.NullString
		hasDiagnosis int
		createdAt    string
		updatedAt    string
	)
	err := r.Scan(&p.ID, &p.Name, &dob, &p.AgeYears, &hasDiagnosis,
		&p.ParentID, &p.TeamID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning kid profile: %w", err)
	}
	p.DOB = parseNullableTime(dob, "2006-01-02")
	p.HasDiagnosis = intToBool(hasDiagnosis)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// SQLiteUserStore implements UserStore on the local database.
type SQLiteUserStore struct {
	db db.DBTX
}

// NewSQLiteUserStore creates a new SQLiteUserStore.
func NewSQLiteUserStore(dbtx db.DBTX) *SQLiteUserStore {
	return &SQLiteUserStore{db: dbtx}
}

func (s *SQLiteUserStore) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, name, role, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, string(u.Role), u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *SQLiteUserStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, role, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Role = domain.MemberRole(role)
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}
