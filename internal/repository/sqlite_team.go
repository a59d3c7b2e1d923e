package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/db"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

// SQLiteTeamStore implements TeamStore on the local database.
type SQLiteTeamStore struct {
	db db.DBTX
}

// NewSQLiteTeamStore creates a new SQLiteTeamStore.
func NewSQLiteTeamStore(dbtx db.DBTX) *SQLiteTeamStore {
	return &SQLiteTeamStore{db: dbtx}
}

func (s *SQLiteTeamStore) CreateTeam(ctx context.Context, tm *domain.Team) error {
	query := `INSERT INTO teams (id, kid_profile_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		tm.ID, tm.KidProfileID, tm.Name,
		tm.CreatedAt.Format(time.RFC3339), tm.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

func (s *SQLiteTeamStore) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kid_profile_id, name, created_at, updated_at FROM teams WHERE id = ?`, id)
	return scanTeam(row)
}

func (s *SQLiteTeamStore) GetTeamByKid(ctx context.Context, kidProfileID string) (*domain.Team, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kid_profile_id, name, created_at, updated_at FROM teams
		WHERE kid_profile_id = ?`, kidProfileID)
	return scanTeam(row)
}

func (s *SQLiteTeamStore) DeleteTeam(ctx context.Context, id string) error {
	// Memberships and requests have no foreign key back to the team;
	// remove them explicitly so no orphans remain.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = ?`, id); err != nil {
		return fmt.Errorf("deleting team members: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM access_requests WHERE team_id = ?`, id); err != nil {
		return fmt.Errorf("deleting team requests: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}

func scanTeam(r rowScanner) (*domain.Team, error) {
	var (
		tm        domain.Team
		createdAt string
		updatedAt string
	)
	err := r.Scan(&tm.ID, &tm.KidProfileID, &tm.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning team: %w", err)
	}
	tm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	tm.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &tm, nil
}

const memberColumns = `id, team_id, user_id, role, status, invited_by, created_at, updated_at`

func (s *SQLiteTeamStore) CreateMember(ctx context.Context, m *domain.TeamMember) error {
	query := `INSERT INTO team_members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.TeamID, m.UserID, string(m.Role), string(m.Status), m.InvitedBy,
		m.CreatedAt.Format(time.RFC3339), m.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting team member: %w", err)
	}
	return nil
}

func (s *SQLiteTeamStore) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	query := `SELECT ` + memberColumns + ` FROM team_members
		WHERE team_id = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	var out []domain.TeamMember
	for rows.Next() {
		var (
			m            domain.TeamMember
			role, status string
			createdAt    string
			updatedAt    string
		)
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &role, &status,
			&m.InvitedBy, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}
		m.Role = domain.MemberRole(role)
		m.Status = domain.MemberStatus(status)
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	return out, nil
}

func (s *SQLiteTeamStore) UpdateMember(ctx context.Context, m *domain.TeamMember) error {
	query := `UPDATE team_members SET role = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		string(m.Role), string(m.Status), m.UpdatedAt.Format(time.RFC3339), m.ID)
	if err != nil {
		return fmt.Errorf("updating team member: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteTeamStore) DeleteMember(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting team member: %w", err)
	}
	return nil
}

const requestColumns = `id, team_id, user_id, message, status, decided_by, decided_at, created_at`

func (s *SQLiteTeamStore) CreateRequest(ctx context.Context, r *domain.AccessRequest) error {
	query := `INSERT INTO access_requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.TeamID, r.UserID, r.Message, string(r.Status), r.DecidedBy,
		nullableTimeToString(r.DecidedAt, time.RFC3339),
		r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting access request: %w", err)
	}
	return nil
}

func (s *SQLiteTeamStore) GetRequest(ctx context.Context, id string) (*domain.AccessRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM access_requests WHERE id = ?`, id)
	return scanAccessRequest(row)
}

func (s *SQLiteTeamStore) ListRequests(ctx context.Context, teamID string, status domain.RequestStatus) ([]domain.AccessRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM access_requests
		WHERE team_id = ? AND status = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, teamID, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing access requests: %w", err)
	}
	defer rows.Close()

	var out []domain.AccessRequest
	for rows.Next() {
		r, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing access requests: %w", err)
	}
	return out, nil
}

func (s *SQLiteTeamStore) UpdateRequest(ctx context.Context, r *domain.AccessRequest) error {
	query := `UPDATE access_requests SET status = ?, decided_by = ?, decided_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		string(r.Status), r.DecidedBy,
		nullableTimeToString(r.DecidedAt, time.RFC3339), r.ID)
	if err != nil {
		return fmt.Errorf("updating access request: %w", err)
	}
	return requireRowAffected(res)
}

func scanAccessRequest(r rowScanner) (*domain.AccessRequest, error) {
	var (
		req       domain.AccessRequest
		status    string
		decidedAt sql.NullString
		createdAt string
	)
	err := r.Scan(&req.ID, &req.TeamID, &req.UserID, &req.Message, &status,
		&req.DecidedBy, &decidedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning access request: %w", err)
	}
	req.Status = domain.RequestStatus(status)
	req.DecidedAt = parseNullableTime(decidedAt, time.RFC3339)
	req.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &req, nil
}
