package testutil

import (
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/google/uuid"
)

// KidProfile options
type ProfileOption func(*domain.KidProfile)

func WithParentID(id string) ProfileOption {
	return func(p *domain.KidProfile) {
		p.ParentID = id
	}
}

func WithDiagnosis() ProfileOption {
	return func(p *domain.KidProfile) {
		p.HasDiagnosis = true
	}
}

func NewTestProfile(name string, opts ...ProfileOption) *domain.KidProfile {
	now := time.Now().UTC()
	dob := now.AddDate(-4, 0, 0)
	p := &domain.KidProfile{
		ID:        uuid.New().String(),
		Name:      name,
		DOB:       &dob,
		AgeYears:  4,
		ParentID:  uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithMilestoneStatus(s domain.MilestoneStatus) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Status = s
	}
}

func WithMilestoneCreatedAt(t time.Time) MilestoneOption {
	return func(m *domain.Milestone) {
		m.CreatedAt = t
		m.UpdatedAt = t
	}
}

func NewTestMilestone(kidProfileID, title string, opts ...MilestoneOption) *domain.Milestone {
	now := time.Now().UTC()
	m := &domain.Milestone{
		ID:           uuid.New().String(),
		KidProfileID: kidProfileID,
		Title:        title,
		Overview:     "Overview for " + title,
		Status:       domain.StatusNotStarted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.MilestoneStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithTaskCreatedAt(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CreatedAt = at
		t.UpdatedAt = at
	}
}

func WithSentiment(s domain.Sentiment) TaskOption {
	return func(t *domain.Task) {
		t.Sentiment = s
	}
}

func NewTestTask(milestoneID, kidProfileID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:           uuid.New().String(),
		MilestoneID:  milestoneID,
		KidProfileID: kidProfileID,
		Title:        title,
		Description:  "Description for " + title,
		Strategies:   "Model the behavior, praise attempts.",
		Status:       domain.StatusNotStarted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

func NewTestUser(name string) *domain.User {
	return &domain.User{
		ID:        uuid.New().String(),
		Email:     name + "@example.com",
		Name:      name,
		Role:      domain.RoleParent,
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestTeam(kidProfileID, name string) *domain.Team {
	now := time.Now().UTC()
	return &domain.Team{
		ID:           uuid.New().String(),
		KidProfileID: kidProfileID,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewTestQuestion(text string, category domain.QuestionCategory, order int) *domain.Question {
	return &domain.Question{
		ID:       uuid.New().String(),
		Text:     text,
		Category: category,
		Order:    order,
	}
}
