package service

import (
	"context"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

type ProfileService interface {
	// Register creates the kid profile together with its care team and
	// the owning parent's membership. The three writes run as a
	// compensating sequence; on failure nothing is left behind.
	Register(ctx context.Context, p *domain.KidProfile, parent *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.KidProfile, error)
	ListByParent(ctx context.Context, parentID string) ([]*domain.KidProfile, error)
	Update(ctx context.Context, p *domain.KidProfile) error
	Delete(ctx context.Context, id string) error
}

type MilestoneService interface {
	// Tree fetches every page of milestones and tasks for a kid,
	// groups tasks under their milestones and annotates progress.
	// Any page failure aborts the whole build.
	Tree(ctx context.Context, kidProfileID string) ([]domain.MilestoneNode, error)

	CreateMilestone(ctx context.Context, m *domain.Milestone) error
	// CreateMilestoneWithTasks issues the dependent writes strictly in
	// sequence and deletes the milestone if any task write fails.
	CreateMilestoneWithTasks(ctx context.Context, m *domain.Milestone, tasks []*domain.Task) error
	GetMilestone(ctx context.Context, id string) (*domain.Milestone, error)
	UpdateMilestone(ctx context.Context, m *domain.Milestone) error
	DeleteMilestone(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	SetTaskStatus(ctx context.Context, id string, status domain.MilestoneStatus) error
	DeleteTask(ctx context.Context, id string) error
}

// Draft is an unpersisted feedback edit awaiting submission.
type Draft struct {
	Text      string
	Sentiment domain.Sentiment
}

type FeedbackService interface {
	SetDraft(entityID string, d Draft)
	Draft(entityID string) (Draft, bool)
	ClearDraft(entityID string)
	// SubmitTask / SubmitMilestone persist the entity's draft with a
	// fresh timestamp and clear it. The caller re-fetches the tree
	// afterwards; there is no optimistic local patch.
	SubmitTask(ctx context.Context, taskID string) error
	SubmitMilestone(ctx context.Context, milestoneID string) error
}

// RosterEntry pairs a membership with its resolved user record.
type RosterEntry struct {
	Member domain.TeamMember
	User   domain.User
}

type TeamService interface {
	GetByKid(ctx context.Context, kidProfileID string) (*domain.Team, error)
	// Roster fetches member user records concurrently; members whose
	// user record cannot be resolved are filtered out, not surfaced.
	Roster(ctx context.Context, teamID string) ([]RosterEntry, error)
	Invite(ctx context.Context, teamID, userID string, role domain.MemberRole, invitedBy string) (*domain.TeamMember, error)
	RequestAccess(ctx context.Context, teamID, userID, message string) (*domain.AccessRequest, error)
	PendingRequests(ctx context.Context, teamID string) ([]domain.AccessRequest, error)
	// Approve creates an ACTIVE membership and marks the request
	// APPROVED; both outcomes are terminal for the request.
	Approve(ctx context.Context, requestID string, role domain.MemberRole, decidedBy string) (*domain.TeamMember, error)
	Reject(ctx context.Context, requestID, decidedBy string) error
}

type AssessmentService interface {
	Questions(ctx context.Context, category domain.QuestionCategory) ([]domain.Question, error)
	// Submit writes one response per answer, all sharing a single
	// timestamp; that timestamp identifies the assessment.
	Submit(ctx context.Context, kidProfileID string, answers map[string]string) (*domain.Assessment, error)
	History(ctx context.Context, kidProfileID string) ([]domain.Assessment, error)
}

// CommentThread is a top-level comment with its one level of replies.
type CommentThread struct {
	Comment domain.BlogComment
	Replies []domain.BlogComment
}

type BlogService interface {
	CreatePost(ctx context.Context, p *domain.BlogPost) error
	GetPost(ctx context.Context, id string) (*domain.BlogPost, error)
	ListPosts(ctx context.Context, status domain.PostStatus) ([]domain.BlogPost, error)
	Publish(ctx context.Context, id string) error
	Flag(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	Comment(ctx context.Context, c *domain.BlogComment) error
	Threads(ctx context.Context, postID string) ([]CommentThread, error)
}

// Clock lets tests pin timestamps; production uses time.Now.
type Clock func() time.Time
