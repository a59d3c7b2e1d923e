package domain

import "time"

// Question is a static question-bank entry tagged with a category.
type Question struct {
	ID       string
	Text     string
	Category QuestionCategory
	Order    int
}

// UserResponse is one free-text answer for a kid profile. All responses
// submitted together share one AskedAt timestamp; that shared timestamp
// is what groups them into an assessment.
type UserResponse struct {
	ID           string
	KidProfileID string
	QuestionID   string
	Answer       string
	AskedAt      time.Time
	CreatedAt    time.Time
}

// Assessment is the implicit grouping of all responses for a kid that
// share one AskedAt timestamp.
type Assessment struct {
	KidProfileID string
	AskedAt      time.Time
	Responses    []UserResponse
}
