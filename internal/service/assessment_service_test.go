package service

import (
	"context"
	"testing"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/Synchronicityai-org/tinywins/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuestionBank(t *testing.T, store repository.AssessmentStore) []domain.Question {
	t.Helper()
	ctx := context.Background()
	qs := []*domain.Question{
		testutil.NewTestQuestion("Does your child point at things?", domain.CategoryCommunication, 1),
		testutil.NewTestQuestion("Does your child stack blocks?", domain.CategoryMotor, 2),
		testutil.NewTestQuestion("Does your child wave goodbye?", domain.CategorySocial, 3),
	}
	out := make([]domain.Question, 0, len(qs))
	for _, q := range qs {
		require.NoError(t, store.CreateQuestion(ctx, q))
		out = append(out, *q)
	}
	return out
}

func newAssessmentServiceAt(store repository.AssessmentStore, at time.Time) *assessmentService {
	return &assessmentService{store: store, now: func() time.Time { return at }}
}

func TestQuestions_FiltersByCategory(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	seedQuestionBank(t, store)
	svc := NewAssessmentService(store)
	ctx := context.Background()

	all, err := svc.Questions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Bank order, not insertion accident.
	assert.Equal(t, 1, all[0].Order)
	assert.Equal(t, 3, all[2].Order)

	motor, err := svc.Questions(ctx, domain.CategoryMotor)
	require.NoError(t, err)
	require.Len(t, motor, 1)
	assert.Equal(t, domain.CategoryMotor, motor[0].Category)

	_, err = svc.Questions(ctx, "JUGGLING")
	assert.Error(t, err)
}

func TestSubmit_AllResponsesShareOneTimestamp(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	questions := seedQuestionBank(t, store)
	askedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	svc := newAssessmentServiceAt(store, askedAt)

	answers := map[string]string{
		questions[0].ID: "yes",
		questions[2].ID: "sometimes",
	}
	a, err := svc.Submit(context.Background(), "kid-1", answers)
	require.NoError(t, err)
	require.Len(t, a.Responses, 2)
	assert.True(t, a.AskedAt.Equal(askedAt))
	for _, r := range a.Responses {
		assert.True(t, r.AskedAt.Equal(askedAt), "every response carries the shared timestamp")
	}
	// Responses follow question bank order.
	assert.Equal(t, questions[0].ID, a.Responses[0].QuestionID)
	assert.Equal(t, questions[2].ID, a.Responses[1].QuestionID)
}

func TestSubmit_Validation(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	questions := seedQuestionBank(t, store)
	svc := NewAssessmentService(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "", map[string]string{questions[0].ID: "yes"})
	assert.Error(t, err)

	_, err = svc.Submit(ctx, "kid-1", nil)
	assert.Error(t, err)

	_, err = svc.Submit(ctx, "kid-1", map[string]string{"no-such-question": "yes"})
	assert.Error(t, err)
}

func TestHistory_GroupsByTimestampNewestFirst(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	questions := seedQuestionBank(t, store)
	ctx := context.Background()

	first := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	second := time.Date(2026, 4, 2, 17, 45, 0, 0, time.UTC)

	_, err := newAssessmentServiceAt(store, first).Submit(ctx, "kid-1", map[string]string{
		questions[0].ID: "no",
		questions[1].ID: "no",
	})
	require.NoError(t, err)

	_, err = newAssessmentServiceAt(store, second).Submit(ctx, "kid-1", map[string]string{
		questions[0].ID: "yes",
		questions[1].ID: "sometimes",
		questions[2].ID: "yes",
	})
	require.NoError(t, err)

	history, err := NewAssessmentService(store).History(ctx, "kid-1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.True(t, history[0].AskedAt.Equal(second))
	assert.Len(t, history[0].Responses, 3)
	assert.True(t, history[1].AskedAt.Equal(first))
	assert.Len(t, history[1].Responses, 2)
}

func TestHistory_IsolatesKids(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	questions := seedQuestionBank(t, store)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := newAssessmentServiceAt(store, at).Submit(ctx, "kid-1", map[string]string{questions[0].ID: "yes"})
	require.NoError(t, err)

	history, err := NewAssessmentService(store).History(ctx, "kid-2")
	require.NoError(t, err)
	assert.Empty(t, history)
}
