package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tasksWithStatuses(statuses ...MilestoneStatus) []Task {
	tasks := make([]Task, len(statuses))
	for i, s := range statuses {
		tasks[i] = Task{ID: "t", Status: s}
	}
	return tasks
}

func TestProgress_Empty(t *testing.T) {
	assert.Equal(t, 0, Progress(nil))
	assert.Equal(t, 0, Progress([]Task{}))
}

func TestProgress_AllCompleted(t *testing.T) {
	assert.Equal(t, 100, Progress(tasksWithStatuses(StatusCompleted)))
	assert.Equal(t, 100, Progress(tasksWithStatuses(StatusCompleted, StatusCompleted, StatusCompleted)))
}

func TestProgress_Half(t *testing.T) {
	assert.Equal(t, 50, Progress(tasksWithStatuses(StatusCompleted, StatusNotStarted)))
}

func TestProgress_RoundsHalfUp(t *testing.T) {
	// 1/3 = 33.33 → 33, 2/3 = 66.67 → 67
	assert.Equal(t, 33, Progress(tasksWithStatuses(StatusCompleted, StatusNotStarted, StatusInProgress)))
	assert.Equal(t, 67, Progress(tasksWithStatuses(StatusCompleted, StatusCompleted, StatusNotStarted)))
	// 1/8 = 12.5 rounds up to 13
	assert.Equal(t, 13, Progress(tasksWithStatuses(
		StatusCompleted, StatusNotStarted, StatusNotStarted, StatusNotStarted,
		StatusNotStarted, StatusNotStarted, StatusNotStarted, StatusNotStarted)))
}

func TestProgress_DenominatorCountsAllStatuses(t *testing.T) {
	// Archived and in-progress tasks still count toward the denominator.
	assert.Equal(t, 25, Progress(tasksWithStatuses(
		StatusCompleted, StatusArchived, StatusInProgress, StatusNotStarted)))
}

func TestProgress_Bounds(t *testing.T) {
	sets := [][]Task{
		nil,
		tasksWithStatuses(StatusNotStarted),
		tasksWithStatuses(StatusCompleted),
		tasksWithStatuses(StatusCompleted, StatusInProgress, StatusArchived),
	}
	for _, tasks := range sets {
		p := Progress(tasks)
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
}
