package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/repository"
)

type feedbackService struct {
	store repository.MilestoneStore
	now   Clock

	mu     sync.Mutex
	drafts map[string]Draft
}

// NewFeedbackService creates a FeedbackService holding drafts in memory
// until they are submitted through the given store.
func NewFeedbackService(store repository.MilestoneStore) FeedbackService {
	return &feedbackService{
		store:  store,
		now:    time.Now,
		drafts: make(map[string]Draft),
	}
}

func (s *feedbackService) SetDraft(entityID string, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[entityID] = d
}

func (s *feedbackService) Draft(entityID string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[entityID]
	return d, ok
}

func (s *feedbackService) ClearDraft(entityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, entityID)
}

func (s *feedbackService) SubmitTask(ctx context.Context, taskID string) error {
	d, ok := s.Draft(taskID)
	if !ok {
		return fmt.Errorf("no draft for task %s", taskID)
	}

	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("loading task %s: %w", taskID, err)
	}

	now := s.now().UTC()
	t.ParentFeedback = d.Text
	t.Sentiment = d.Sentiment
	t.FeedbackAt = &now
	t.UpdatedAt = now
	if err := s.store.UpdateTask(ctx, t); err != nil {
		// Draft survives a failed write so the user can retry.
		return fmt.Errorf("saving task feedback: %w", err)
	}

	s.ClearDraft(taskID)
	return nil
}

func (s *feedbackService) SubmitMilestone(ctx context.Context, milestoneID string) error {
	d, ok := s.Draft(milestoneID)
	if !ok {
		return fmt.Errorf("no draft for milestone %s", milestoneID)
	}

	m, err := s.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return fmt.Errorf("loading milestone %s: %w", milestoneID, err)
	}

	now := s.now().UTC()
	m.ParentFeedback = d.Text
	m.Sentiment = d.Sentiment
	m.FeedbackAt = &now
	m.UpdatedAt = now
	if err := s.store.UpdateMilestone(ctx, m); err != nil {
		return fmt.Errorf("saving milestone feedback: %w", err)
	}

	s.ClearDraft(milestoneID)
	return nil
}
