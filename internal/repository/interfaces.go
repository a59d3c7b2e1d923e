package repository

import (
	"context"
	"errors"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

// ErrNotFound is returned by Get calls when no record matches.
var ErrNotFound = errors.New("record not found")

// Store interfaces mirror the external data service's surface:
// per-entity CRUD with field-equality list filters, and opaque
// continuation tokens on the lists that feed aggregation. Both the
// remote client and the SQLite local mode satisfy them.

type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type KidProfileStore interface {
	CreateProfile(ctx context.Context, p *domain.KidProfile) error
	GetProfile(ctx context.Context, id string) (*domain.KidProfile, error)
	ListProfilesByParent(ctx context.Context, parentID string) ([]*domain.KidProfile, error)
	UpdateProfile(ctx context.Context, p *domain.KidProfile) error
	DeleteProfile(ctx context.Context, id string) error
}

type MilestoneStore interface {
	CreateMilestone(ctx context.Context, m *domain.Milestone) error
	GetMilestone(ctx context.Context, id string) (*domain.Milestone, error)
	// ListMilestones returns one page of milestones for a kid profile,
	// newest-created-first, plus the continuation token for the next
	// page ("" when exhausted).
	ListMilestones(ctx context.Context, kidProfileID, pageToken string) ([]domain.Milestone, string, error)
	UpdateMilestone(ctx context.Context, m *domain.Milestone) error
	DeleteMilestone(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	// ListTasks pages through all tasks for a kid profile in stored
	// order; grouping under milestones happens in the service layer.
	ListTasks(ctx context.Context, kidProfileID, pageToken string) ([]domain.Task, string, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type TeamStore interface {
	CreateTeam(ctx context.Context, tm *domain.Team) error
	GetTeam(ctx context.Context, id string) (*domain.Team, error)
	GetTeamByKid(ctx context.Context, kidProfileID string) (*domain.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	CreateMember(ctx context.Context, m *domain.TeamMember) error
	ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error)
	UpdateMember(ctx context.Context, m *domain.TeamMember) error
	DeleteMember(ctx context.Context, id string) error

	CreateRequest(ctx context.Context, r *domain.AccessRequest) error
	GetRequest(ctx context.Context, id string) (*domain.AccessRequest, error)
	ListRequests(ctx context.Context, teamID string, status domain.RequestStatus) ([]domain.AccessRequest, error)
	UpdateRequest(ctx context.Context, r *domain.AccessRequest) error
}

type AssessmentStore interface {
	CreateQuestion(ctx context.Context, q *domain.Question) error
	ListQuestions(ctx context.Context, category domain.QuestionCategory) ([]domain.Question, error)
	// CreateResponses persists one submission's responses. Local mode
	// writes them in a single transaction.
	CreateResponses(ctx context.Context, rs []domain.UserResponse) error
	ListResponses(ctx context.Context, kidProfileID string) ([]domain.UserResponse, error)
}

type BlogStore interface {
	CreatePost(ctx context.Context, p *domain.BlogPost) error
	GetPost(ctx context.Context, id string) (*domain.BlogPost, error)
	ListPosts(ctx context.Context, status domain.PostStatus) ([]domain.BlogPost, error)
	UpdatePost(ctx context.Context, p *domain.BlogPost) error

	CreateComment(ctx context.Context, c *domain.BlogComment) error
	ListComments(ctx context.Context, postID string) ([]domain.BlogComment, error)
}
