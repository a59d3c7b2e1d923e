package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/google/uuid"
)

type blogService struct {
	store repository.BlogStore
	now   Clock
}

// NewBlogService creates a BlogService backed by the given store.
func NewBlogService(store repository.BlogStore) BlogService {
	return &blogService{store: store, now: time.Now}
}

func (s *blogService) CreatePost(ctx context.Context, p *domain.BlogPost) error {
	if p.Title == "" {
		return fmt.Errorf("post requires a title")
	}
	if p.AuthorID == "" {
		return fmt.Errorf("post requires an author")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.PostDraft
	}
	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.store.CreatePost(ctx, p)
}

func (s *blogService) GetPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	return s.store.GetPost(ctx, id)
}

func (s *blogService) ListPosts(ctx context.Context, status domain.PostStatus) ([]domain.BlogPost, error) {
	return s.store.ListPosts(ctx, status)
}

func (s *blogService) Publish(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.PostPublished, func(p *domain.BlogPost) error {
		if p.Status != domain.PostDraft {
			return fmt.Errorf("only draft posts can be published (post is %s)", p.Status)
		}
		return nil
	})
}

func (s *blogService) Flag(ctx context.Context, id string) error {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	p.Status = domain.PostFlagged
	p.Flagged = true
	p.UpdatedAt = s.now().UTC()
	return s.store.UpdatePost(ctx, p)
}

func (s *blogService) SoftDelete(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.PostDeleted, nil)
}

func (s *blogService) setStatus(ctx context.Context, id string, status domain.PostStatus, check func(*domain.BlogPost) error) error {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(p); err != nil {
			return err
		}
	}
	p.Status = status
	p.UpdatedAt = s.now().UTC()
	return s.store.UpdatePost(ctx, p)
}

func (s *blogService) Comment(ctx context.Context, c *domain.BlogComment) error {
	if c.Body == "" {
		return fmt.Errorf("comment requires a body")
	}
	post, err := s.store.GetPost(ctx, c.PostID)
	if err != nil {
		return fmt.Errorf("resolving post %s: %w", c.PostID, err)
	}
	if post.Status != domain.PostPublished {
		return fmt.Errorf("comments are only allowed on published posts")
	}

	// Comments nest exactly one level: replies must target a top-level
	// comment on the same post.
	if c.ParentCommentID != "" {
		comments, err := s.store.ListComments(ctx, c.PostID)
		if err != nil {
			return fmt.Errorf("resolving parent comment: %w", err)
		}
		var parent *domain.BlogComment
		for i := range comments {
			if comments[i].ID == c.ParentCommentID {
				parent = &comments[i]
				break
			}
		}
		if parent == nil {
			return fmt.Errorf("parent comment %s not found on post %s", c.ParentCommentID, c.PostID)
		}
		if parent.IsReply() {
			return fmt.Errorf("replies to replies are not allowed")
		}
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = s.now().UTC()
	return s.store.CreateComment(ctx, c)
}

func (s *blogService) Threads(ctx context.Context, postID string) ([]CommentThread, error) {
	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	replies := make(map[string][]domain.BlogComment)
	var threads []CommentThread
	for _, c := range comments {
		if c.IsReply() {
			replies[c.ParentCommentID] = append(replies[c.ParentCommentID], c)
		} else {
			threads = append(threads, CommentThread{Comment: c})
		}
	}
	for i := range threads {
		threads[i].Replies = replies[threads[i].Comment.ID]
	}
	return threads, nil
}
