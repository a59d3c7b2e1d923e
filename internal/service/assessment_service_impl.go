package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/google/uuid"
)

type assessmentService struct {
	store repository.AssessmentStore
	now   Clock
}

// NewAssessmentService creates an AssessmentService backed by the given store.
func NewAssessmentService(store repository.AssessmentStore) AssessmentService {
	return &assessmentService{store: store, now: time.Now}
}

func (s *assessmentService) Questions(ctx context.Context, category domain.QuestionCategory) ([]domain.Question, error) {
	if category != "" && !domain.ValidQuestionCategories[string(category)] {
		return nil, fmt.Errorf("invalid question category %q", category)
	}
	return s.store.ListQuestions(ctx, category)
}

func (s *assessmentService) Submit(ctx context.Context, kidProfileID string, answers map[string]string) (*domain.Assessment, error) {
	if kidProfileID == "" {
		return nil, fmt.Errorf("assessment requires a kid profile id")
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("assessment requires at least one answer")
	}

	// One shared timestamp ties the responses into a single assessment.
	askedAt := s.now().UTC()

	// Answer in a stable order: question bank order, skipping questions
	// the caller did not answer.
	questions, err := s.store.ListQuestions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}

	assessment := &domain.Assessment{KidProfileID: kidProfileID, AskedAt: askedAt}
	answered := 0
	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		answered++
		assessment.Responses = append(assessment.Responses, domain.UserResponse{
			ID:           uuid.New().String(),
			KidProfileID: kidProfileID,
			QuestionID:   q.ID,
			Answer:       answer,
			AskedAt:      askedAt,
			CreatedAt:    askedAt,
		})
	}
	if answered != len(answers) {
		return nil, fmt.Errorf("%d answers reference unknown questions", len(answers)-answered)
	}
	if err := s.store.CreateResponses(ctx, assessment.Responses); err != nil {
		return nil, fmt.Errorf("saving responses: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) History(ctx context.Context, kidProfileID string) ([]domain.Assessment, error) {
	responses, err := s.store.ListResponses(ctx, kidProfileID)
	if err != nil {
		return nil, fmt.Errorf("loading responses: %w", err)
	}

	// Responses arrive newest-assessment-first; group runs of equal
	// AskedAt into assessments.
	var out []domain.Assessment
	for _, r := range responses {
		if len(out) == 0 || !out[len(out)-1].AskedAt.Equal(r.AskedAt) {
			out = append(out, domain.Assessment{
				KidProfileID: kidProfileID,
				AskedAt:      r.AskedAt,
			})
		}
		last := &out[len(out)-1]
		last.Responses = append(last.Responses, r)
	}
	return out, nil
}
