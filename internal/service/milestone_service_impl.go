package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type milestoneService struct {
	store repository.MilestoneStore
	log   *zap.Logger
	now   Clock
}

// NewMilestoneService creates a MilestoneService backed by the given store.
func NewMilestoneService(store repository.MilestoneStore, log *zap.Logger) MilestoneService {
	if log == nil {
		log = zap.NewNop()
	}
	return &milestoneService{store: store, log: log, now: time.Now}
}

func (s *milestoneService) Tree(ctx context.Context, kidProfileID string) ([]domain.MilestoneNode, error) {
	milestones, err := fetchAllMilestones(ctx, s.store, kidProfileID)
	if err != nil {
		return nil, err
	}
	tasks, err := fetchAllTasks(ctx, s.store, kidProfileID)
	if err != nil {
		return nil, err
	}

	nodes, orphans := buildTree(milestones, tasks)
	if orphans > 0 {
		s.log.Warn("tasks reference unknown milestones",
			zap.String("kid_profile_id", kidProfileID),
			zap.Int("orphans", orphans))
	}
	return nodes, nil
}

func (s *milestoneService) CreateMilestone(ctx context.Context, m *domain.Milestone) error {
	if m.KidProfileID == "" {
		return fmt.Errorf("milestone requires a kid profile id")
	}
	if m.Title == "" {
		return fmt.Errorf("milestone requires a title")
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = domain.StatusNotStarted
	}
	now := s.now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.store.CreateMilestone(ctx, m)
}

func (s *milestoneService) CreateMilestoneWithTasks(ctx context.Context, m *domain.Milestone, tasks []*domain.Task) error {
	if err := s.CreateMilestone(ctx, m); err != nil {
		return err
	}
	// Dependent writes are strictly sequential; each task references
	// the milestone created above.
	for i, t := range tasks {
		t.MilestoneID = m.ID
		t.KidProfileID = m.KidProfileID
		if err := s.CreateTask(ctx, t); err != nil {
			// Compensate: remove the milestone and any tasks already
			// written so no partial group remains.
			if delErr := s.store.DeleteMilestone(ctx, m.ID); delErr != nil {
				s.log.Error("compensating milestone delete failed",
					zap.String("milestone_id", m.ID),
					zap.Error(delErr))
			}
			return fmt.Errorf("creating task %d of %d: %w", i+1, len(tasks), err)
		}
	}
	return nil
}

func (s *milestoneService) GetMilestone(ctx context.Context, id string) (*domain.Milestone, error) {
	return s.store.GetMilestone(ctx, id)
}

func (s *milestoneService) UpdateMilestone(ctx context.Context, m *domain.Milestone) error {
	m.UpdatedAt = s.now().UTC()
	return s.store.UpdateMilestone(ctx, m)
}

func (s *milestoneService) DeleteMilestone(ctx context.Context, id string) error {
	return s.store.DeleteMilestone(ctx, id)
}

func (s *milestoneService) CreateTask(ctx context.Context, t *domain.Task) error {
	if t.MilestoneID == "" {
		return fmt.Errorf("task requires a milestone id")
	}
	if t.Title == "" {
		return fmt.Errorf("task requires a title")
	}
	parent, err := s.store.GetMilestone(ctx, t.MilestoneID)
	if err != nil {
		return fmt.Errorf("resolving milestone %s: %w", t.MilestoneID, err)
	}
	if t.KidProfileID == "" {
		t.KidProfileID = parent.KidProfileID
	}
	if t.KidProfileID != parent.KidProfileID {
		return fmt.Errorf("task kid profile %s does not match milestone's %s",
			t.KidProfileID, parent.KidProfileID)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.StatusNotStarted
	}
	now := s.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.store.CreateTask(ctx, t)
}

func (s *milestoneService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.store.GetTask(ctx, id)
}

func (s *milestoneService) UpdateTask(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = s.now().UTC()
	return s.store.UpdateTask(ctx, t)
}

func (s *milestoneService) SetTaskStatus(ctx context.Context, id string, status domain.MilestoneStatus) error {
	if !domain.ValidMilestoneStatuses[string(status)] {
		return fmt.Errorf("invalid status %q", status)
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	t.Status = status
	t.UpdatedAt = s.now().UTC()
	return s.store.UpdateTask(ctx, t)
}

func (s *milestoneService) DeleteTask(ctx context.Context, id string) error {
	return s.store.DeleteTask(ctx, id)
}
