package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/db"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

const blogPostColumns = `id, author_id, title, body, status, flagged, created_at, updated_at`

// SQLiteBlogStore implements BlogStore on the local database.
type SQLiteBlogStore struct {
	db db.DBTX
}

// NewSQLiteBlogStore creates a new SQLiteBlogStore.
func NewSQLiteBlogStore(dbtx db.DBTX) *SQLiteBlogStore {
	return &SQLiteBlogStore{db: dbtx}
}

func (s *SQLiteBlogStore) CreatePost(ctx context.Context, p *domain.BlogPost) error {
	query := `INSERT INTO blog_posts (` + blogPostColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.AuthorID, p.Title, p.Body, string(p.Status), boolToInt(p.Flagged),
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting blog post: %w", err)
	}
	return nil
}

func (s *SQLiteBlogStore) GetPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanBlogPost(row)
}

// ListPosts returns posts newest-first, optionally filtered to one
// status ("" means all non-deleted).
func (s *SQLiteBlogStore) ListPosts(ctx context.Context, status domain.PostStatus) ([]domain.BlogPost, error) {
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	} else {
		query += ` WHERE status != 'DELETED'`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	defer rows.Close()

	var out []domain.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	return out, nil
}

func (s *SQLiteBlogStore) UpdatePost(ctx context.Context, p *domain.BlogPost) error {
	query := `UPDATE blog_posts SET title = ?, body = ?, status = ?, flagged = ?, updated_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		p.Title, p.Body, string(p.Status), boolToInt(p.Flagged),
		p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("updating blog post: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteBlogStore) CreateComment(ctx context.Context, c *domain.BlogComment) error {
	query := `INSERT INTO blog_comments (id, post_id, parent_comment_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.PostID, c.ParentCommentID, c.AuthorID, c.Body,
		c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting blog comment: %w", err)
	}
	return nil
}

func (s *SQLiteBlogStore) ListComments(ctx context.Context, postID string) ([]domain.BlogComment, error) {
	query := `SELECT id, post_id, parent_comment_id, author_id, body, created_at
		FROM blog_comments WHERE post_id = ? ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("listing blog comments: %w", err)
	}
	defer rows.Close()

	var out []domain.BlogComment
	for rows.Next() {
		var (
			c         domain.BlogComment
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.ParentCommentID,
			&c.AuthorID, &c.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning blog comment: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing blog comments: %w", err)
	}
	return out, nil
}

func scanBlogPost(r rowScanner) (*domain.BlogPost, error) {
	var (
		p         domain.BlogPost
		status    string
		flagged   int
		createdAt string
		updatedAt string
	)
	err := r.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &status, &flagged,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning blog post: %w", err)
	}
	p.Status = domain.PostStatus(status)
	p.Flagged = intToBool(flagged)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}
