package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/Synchronicityai-org/tinywins/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kidID = "kid-1"

func TestTree_GroupsTasksUnderMilestones(t *testing.T) {
	m1 := testutil.NewTestMilestone(kidID, "Says first words")
	m2 := testutil.NewTestMilestone(kidID, "Points at objects")
	t1 := testutil.NewTestTask(m1.ID, kidID, "Practice animal sounds")
	t2 := testutil.NewTestTask(m1.ID, kidID, "Read picture books", testutil.WithTaskStatus(domain.StatusCompleted))
	t3 := testutil.NewTestTask(m2.ID, kidID, "Play pointing games")

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m1, *m2}},
		TaskPages:      [][]domain.Task{{*t1, *t2, *t3}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Every task lands under exactly one milestone.
	seen := map[string]int{}
	for _, n := range nodes {
		for _, task := range n.Tasks {
			seen[task.ID]++
			assert.Equal(t, n.Milestone.ID, task.MilestoneID)
		}
	}
	assert.Equal(t, map[string]int{t1.ID: 1, t2.ID: 1, t3.ID: 1}, seen)
}

func TestTree_MilestonesNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	old := testutil.NewTestMilestone(kidID, "Old", testutil.WithMilestoneCreatedAt(base))
	mid := testutil.NewTestMilestone(kidID, "Mid", testutil.WithMilestoneCreatedAt(base.AddDate(0, 1, 0)))
	newest := testutil.NewTestMilestone(kidID, "New", testutil.WithMilestoneCreatedAt(base.AddDate(0, 2, 0)))

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*old, *newest, *mid}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "New", nodes[0].Milestone.Title)
	assert.Equal(t, "Mid", nodes[1].Milestone.Title)
	assert.Equal(t, "Old", nodes[2].Milestone.Title)
}

func TestTree_TasksKeepFetchOrder(t *testing.T) {
	m := testutil.NewTestMilestone(kidID, "Milestone")
	ta := testutil.NewTestTask(m.ID, kidID, "alpha")
	tb := testutil.NewTestTask(m.ID, kidID, "bravo")
	tc := testutil.NewTestTask(m.ID, kidID, "charlie")

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m}},
		// Deliberately not sorted by anything.
		TaskPages: [][]domain.Task{{*tc, *ta}, {*tb}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	var titles []string
	for _, task := range nodes[0].Tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, titles)
}

func TestTree_EmptyMilestoneZeroProgress(t *testing.T) {
	m := testutil.NewTestMilestone(kidID, "No tasks yet")
	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 0, nodes[0].Progress)
	assert.Empty(t, nodes[0].Tasks)
}

func TestTree_ProgressAnnotation(t *testing.T) {
	m := testutil.NewTestMilestone(kidID, "Milestone")
	done := testutil.NewTestTask(m.ID, kidID, "done", testutil.WithTaskStatus(domain.StatusCompleted))
	todo := testutil.NewTestTask(m.ID, kidID, "todo")

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m}},
		TaskPages:      [][]domain.Task{{*done, *todo}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	assert.Equal(t, 50, nodes[0].Progress)
}

func TestTree_OrphanTasksDropped(t *testing.T) {
	m := testutil.NewTestMilestone(kidID, "Milestone")
	ok := testutil.NewTestTask(m.ID, kidID, "attached")
	orphan := testutil.NewTestTask("no-such-milestone", kidID, "orphan")

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m}},
		TaskPages:      [][]domain.Task{{*ok, *orphan}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Tasks, 1)
	assert.Equal(t, "attached", nodes[0].Tasks[0].Title)
}

func TestTree_PaginationExhaustive(t *testing.T) {
	m1 := testutil.NewTestMilestone(kidID, "One")
	m2 := testutil.NewTestMilestone(kidID, "Two")
	m3 := testutil.NewTestMilestone(kidID, "Three")

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m1}, {*m2}, {*m3}},
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
	// Three pages, exactly three milestone fetches.
	assert.Equal(t, 3, store.MilestoneFetches)
	// Task list was empty: a single fetch that returned no token.
	assert.Equal(t, 1, store.TaskFetches)
}

func TestTree_MidPageFailureAbortsWholeBuild(t *testing.T) {
	m1 := testutil.NewTestMilestone(kidID, "One")
	m2 := testutil.NewTestMilestone(kidID, "Two")
	m3 := testutil.NewTestMilestone(kidID, "Three")

	store := &testutil.FakeMilestoneStore{
		MilestonePages:    [][]domain.Milestone{{*m1}, {*m2}, {*m3}},
		FailMilestonePage: 2,
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.Error(t, err)
	// No partial tree.
	assert.Nil(t, nodes)
	// The aborted build stops fetching immediately.
	assert.Equal(t, 2, store.MilestoneFetches)
	assert.Equal(t, 0, store.TaskFetches)

	// A manual retry restarts from page one and succeeds.
	store.FailMilestonePage = 0
	nodes, err = svc.Tree(context.Background(), kidID)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestTree_TaskPageFailureAbortsWholeBuild(t *testing.T) {
	m := testutil.NewTestMilestone(kidID, "Milestone")
	t1 := testutil.NewTestTask(m.ID, kidID, "a")
	t2 := testutil.NewTestTask(m.ID, kidID, "b")

	store := &testutil.FakeMilestoneStore{
		MilestonePages: [][]domain.Milestone{{*m}},
		TaskPages:      [][]domain.Task{{*t1}, {*t2}},
		FailTaskPage:   2,
	}
	svc := NewMilestoneService(store, nil)

	nodes, err := svc.Tree(context.Background(), kidID)
	require.Error(t, err)
	assert.Nil(t, nodes)
}

func TestTree_AgainstSQLiteStoreWithSmallPages(t *testing.T) {
	database := testutil.NewTestDB(t)
	sqlStore := repository.NewSQLiteMilestoneStore(database)
	sqlStore.PageSize = 2
	svc := NewMilestoneService(sqlStore, nil)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	var milestoneIDs []string
	for i := 0; i < 5; i++ {
		m := testutil.NewTestMilestone(kidID, "Milestone",
			testutil.WithMilestoneCreatedAt(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, sqlStore.CreateMilestone(ctx, m))
		milestoneIDs = append(milestoneIDs, m.ID)
	}
	for i := 0; i < 7; i++ {
		task := testutil.NewTestTask(milestoneIDs[i%5], kidID, "Task",
			testutil.WithTaskCreatedAt(base.Add(time.Duration(i)*time.Minute)))
		if i%2 == 0 {
			task.Status = domain.StatusCompleted
		}
		require.NoError(t, sqlStore.CreateTask(ctx, task))
	}

	nodes, err := svc.Tree(ctx, kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 5)

	total := 0
	for _, n := range nodes {
		total += len(n.Tasks)
	}
	assert.Equal(t, 7, total)
}

func TestCreateTask_InheritsAndValidatesKidProfile(t *testing.T) {
	store := &testutil.FakeMilestoneStore{}
	svc := NewMilestoneService(store, nil)
	ctx := context.Background()

	m := testutil.NewTestMilestone(kidID, "Milestone")
	require.NoError(t, svc.CreateMilestone(ctx, m))

	task := &domain.Task{MilestoneID: m.ID, Title: "Task"}
	require.NoError(t, svc.CreateTask(ctx, task))
	assert.Equal(t, kidID, task.KidProfileID)
	assert.Equal(t, domain.StatusNotStarted, task.Status)
	assert.NotEmpty(t, task.ID)

	// A task claiming a different kid profile than its milestone is rejected.
	wrong := &domain.Task{MilestoneID: m.ID, KidProfileID: "someone-else", Title: "Bad"}
	assert.Error(t, svc.CreateTask(ctx, wrong))
}

func TestCreateMilestoneWithTasks_Sequential(t *testing.T) {
	store := &testutil.FakeMilestoneStore{}
	svc := NewMilestoneService(store, nil)
	ctx := context.Background()

	m := &domain.Milestone{KidProfileID: kidID, Title: "Group"}
	tasks := []*domain.Task{
		{Title: "First"},
		{Title: "Second"},
	}
	require.NoError(t, svc.CreateMilestoneWithTasks(ctx, m, tasks))

	nodes, err := svc.Tree(ctx, kidID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Tasks, 2)
}

func TestCreateMilestoneWithTasks_FailureRemovesMilestone(t *testing.T) {
	store := &testutil.FakeMilestoneStore{}
	svc := NewMilestoneService(store, nil)
	ctx := context.Background()

	m := &domain.Milestone{KidProfileID: kidID, Title: "Group"}
	tasks := []*domain.Task{
		{Title: "First"},
		{Title: ""}, // invalid: fails validation after the milestone exists
	}
	require.Error(t, svc.CreateMilestoneWithTasks(ctx, m, tasks))

	_, err := svc.GetMilestone(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetTaskStatus(t *testing.T) {
	store := &testutil.FakeMilestoneStore{}
	svc := NewMilestoneService(store, nil)
	ctx := context.Background()

	m := testutil.NewTestMilestone(kidID, "Milestone")
	require.NoError(t, svc.CreateMilestone(ctx, m))
	task := &domain.Task{MilestoneID: m.ID, Title: "Task"}
	require.NoError(t, svc.CreateTask(ctx, task))

	require.NoError(t, svc.SetTaskStatus(ctx, task.ID, domain.StatusCompleted))
	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	assert.Error(t, svc.SetTaskStatus(ctx, task.ID, "BOGUS"))
	assert.True(t, errors.Is(svc.SetTaskStatus(ctx, "missing", domain.StatusCompleted), repository.ErrNotFound))
}
