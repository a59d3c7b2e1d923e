package domain

import "time"

// Milestone is a developmental goal grouping zero or more tasks.
type Milestone struct {
	ID           string
	KidProfileID string
	Title        string
	Overview     string
	Status       MilestoneStatus

	// Parent feedback, optional.
	ParentFeedback string
	Sentiment      Sentiment
	FeedbackAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task is an actionable item belonging to exactly one milestone.
// Its MilestoneID must reference a milestone with the same KidProfileID.
type Task struct {
	ID           string
	MilestoneID  string
	KidProfileID string
	Title        string
	Description  string
	Strategies   string
	Status       MilestoneStatus

	ParentFeedback string
	Sentiment      Sentiment
	FeedbackAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MilestoneNode is a milestone annotated with its tasks and computed
// progress. Progress is derived at read time, never stored.
type MilestoneNode struct {
	Milestone Milestone
	Tasks     []Task
	Progress  int
}

// HasFeedback reports whether any parent feedback has been recorded.
func (m *Milestone) HasFeedback() bool {
	return m.ParentFeedback != "" || m.Sentiment != SentimentNone
}

// HasFeedback reports whether any parent feedback has been recorded.
func (t *Task) HasFeedback() bool {
	return t.ParentFeedback != "" || t.Sentiment != SentimentNone
}
