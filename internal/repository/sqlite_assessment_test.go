package repository_test

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

func seedQuestions(t *testing.T, store *repository.SQLiteAssessmentStore) []domain.Question {
	t.Helper()
	questions := []domain.Question{
		{ID: "q-motor", Text: "Can they hop on one foot?", Category: domain.CategoryMotor, Order: 2},
		{ID: "q-comm", Text: "Do they use two-word phrases?", Category: domain.CategoryCommunication, Order: 1},
		{ID: "q-social", Text: "Do they take turns in games?", Category: domain.CategorySocial, Order: 3},
	}
	for i := range questions {
		require.NoError(t, store.CreateQuestion(context.Background(), &questions[i]))
	}
	return questions
}

func TestSQLiteAssessmentStore_ListQuestions(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	ctx := context.Background()
	seedQuestions(t, store)

	all, err := store.ListQuestions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Bank order, not insertion order.
	assert.Equal(t, "q-comm", all[0].ID)
	assert.Equal(t, "q-motor", all[1].ID)
	assert.Equal(t, "q-social", all[2].ID)

	motor, err := store.ListQuestions(ctx, domain.CategoryMotor)
	require.NoError(t, err)
	require.Len(t, motor, 1)
	assert.Equal(t, "q-motor", motor[0].ID)
	assert.Equal(t, domain.CategoryMotor, motor[0].Category)
}

func TestSQLiteAssessmentStore_CreateResponses_RoundTrip(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	ctx := context.Background()
	seedQuestions(t, store)

	askedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rs := []domain.UserResponse{
		{ID: "r1", KidProfileID: "kid-1", QuestionID: "q-comm", Answer: "Sometimes", AskedAt: askedAt, CreatedAt: askedAt},
		{ID: "r2", KidProfileID: "kid-1", QuestionID: "q-motor", Answer: "Yes", AskedAt: askedAt, CreatedAt: askedAt},
	}
	require.NoError(t, store.CreateResponses(ctx, rs))

	got, err := store.ListResponses(ctx, "kid-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.True(t, askedAt.Equal(r.AskedAt))
		assert.Equal(t, "kid-1", r.KidProfileID)
	}
}

func TestSQLiteAssessmentStore_CreateResponses_Atomic(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	ctx := context.Background()
	seedQuestions(t, store)

	askedAt := time.Now().UTC()
	// The duplicate id makes the second insert fail; the first insert
	// must be rolled back with it.
	rs := []domain.UserResponse{
		{ID: "r1", KidProfileID: "kid-1", QuestionID: "q-comm", Answer: "Yes", AskedAt: askedAt, CreatedAt: askedAt},
		{ID: "r1", KidProfileID: "kid-1", QuestionID: "q-motor", Answer: "No", AskedAt: askedAt, CreatedAt: askedAt},
	}
	require.Error(t, store.CreateResponses(ctx, rs))

	got, err := store.ListResponses(ctx, "kid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteAssessmentStore_ListResponses_NewestFirst(t *testing.T) {
	store := repository.NewSQLiteAssessmentStore(testutil.NewTestDB(t))
	ctx := context.Background()
	seedQuestions(t, store)

	older := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateResponses(ctx, []domain.UserResponse{
		{ID: "r1", KidProfileID: "kid-1", QuestionID: "q-comm", Answer: "No", AskedAt: older, CreatedAt: older},
	}))
	require.NoError(t, store.CreateResponses(ctx, []domain.UserResponse{
		{ID: "r2", KidProfileID: "kid-1", QuestionID: "q-comm", Answer: "Yes", AskedAt: newer, CreatedAt: newer},
	}))

	got, err := store.ListResponses(ctx, "kid-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)
}
