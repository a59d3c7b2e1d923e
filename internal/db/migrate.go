package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent;
// "duplicate column name" errors from re-run ALTER TABLEs are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Tables carry no foreign keys: rows mirror the remote backend's flat
// collections, and stores delete dependent rows explicitly.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		role        TEXT NOT NULL DEFAULT 'PARENT',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS kid_profiles (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		dob           TEXT,
		age_years     INTEGER NOT NULL DEFAULT 0,
		has_diagnosis INTEGER NOT NULL DEFAULT 0,
		parent_id     TEXT NOT NULL,
		team_id       TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS milestone_tasks (
		id              TEXT PRIMARY KEY,
		record_type     TEXT NOT NULL CHECK(record_type IN ('MILESTONE','TASK')),
		kid_profile_id  TEXT NOT NULL,
		parent_id       TEXT NOT NULL DEFAULT '',
		title           TEXT NOT NULL,
		overview        TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		strategies      TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL
		                CHECK(status IN ('NOT_STARTED','IN_PROGRESS','COMPLETED','ARCHIVED')),
		parent_feedback TEXT NOT NULL DEFAULT '',
		sentiment       TEXT NOT NULL DEFAULT '',
		feedback_at     TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_milestone_tasks_kid
		ON milestone_tasks(kid_profile_id, record_type)`,
	`CREATE INDEX IF NOT EXISTS idx_milestone_tasks_parent
		ON milestone_tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id             TEXT PRIMARY KEY,
		kid_profile_id TEXT NOT NULL,
		name           TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id         TEXT PRIMARY KEY,
		team_id    TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		role       TEXT NOT NULL,
		status     TEXT NOT NULL CHECK(status IN ('ACTIVE','PENDING','INACTIVE')),
		invited_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_team ON team_members(team_id)`,

	`CREATE TABLE IF NOT EXISTS access_requests (
		id         TEXT PRIMARY KEY,
		team_id    TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL CHECK(status IN ('PENDING','APPROVED','REJECTED')),
		decided_by TEXT NOT NULL DEFAULT '',
		decided_at TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS questions (
		id         TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		category   TEXT NOT NULL,
		ord        INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS user_responses (
		id             TEXT PRIMARY KEY,
		kid_profile_id TEXT NOT NULL,
		question_id    TEXT NOT NULL,
		answer         TEXT NOT NULL DEFAULT '',
		asked_at       TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_responses_kid_asked
		ON user_responses(kid_profile_id, asked_at)`,

	`CREATE TABLE IF NOT EXISTS blog_posts (
		id         TEXT PRIMARY KEY,
		author_id  TEXT NOT NULL,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL CHECK(status IN ('DRAFT','PUBLISHED','FLAGGED','DELETED')),
		flagged    INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS blog_comments (
		id                TEXT PRIMARY KEY,
		post_id           TEXT NOT NULL,
		parent_comment_id TEXT NOT NULL DEFAULT '',
		author_id         TEXT NOT NULL,
		body              TEXT NOT NULL,
		created_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_comments_post ON blog_comments(post_id)`,
}
