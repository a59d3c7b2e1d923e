package backend

import "github.com/Synchronicityai-org/tinywins/internal/domain"

// Raw wire shapes as the remote service serves them: every optional
// field a pointer, timestamps as RFC3339 strings. Records are only
// handled here; the rest of the program sees strict domain structs.

// rawRecord is the shared milestone/task record. The service stores
// both in one collection, disambiguated by recordType.
type rawRecord struct {
	ID             *string          `json:"id"`
	RecordType     *string          `json:"recordType"`
	KidProfileID   *string          `json:"kidProfileId"`
	ParentID       *string          `json:"parentId"`
	Title          *string          `json:"title"`
	Overview       *string          `json:"overview"`
	Description    *string          `json:"description"`
	Strategies     *string          `json:"strategies"`
	Status         *string          `json:"status"`
	ParentFeedback *string          `json:"parentFeedback"`
	Sentiment      domain.Sentiment `json:"sentiment"`
	FeedbackAt     *string          `json:"feedbackAt"`
	CreatedAt      *string          `json:"createdAt"`
	UpdatedAt      *string          `json:"updatedAt"`
}

type rawKidProfile struct {
	ID           *string `json:"id"`
	Name         *string `json:"name"`
	DOB          *string `json:"dob"`
	AgeYears     *int    `json:"ageYears"`
	HasDiagnosis *bool   `json:"hasDiagnosis"`
	ParentID     *string `json:"parentId"`
	TeamID       *string `json:"teamId"`
	CreatedAt    *string `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

type rawUser struct {
	ID        *string `json:"id"`
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	CreatedAt *string `json:"createdAt"`
}

type rawTeam struct {
	ID           *string `json:"id"`
	KidProfileID *string `json:"kidProfileId"`
	Name         *string `json:"name"`
	CreatedAt    *string `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

type rawTeamMember struct {
	ID        *string `json:"id"`
	TeamID    *string `json:"teamId"`
	UserID    *string `json:"userId"`
	Role      *string `json:"role"`
	Status    *string `json:"status"`
	InvitedBy *string `json:"invitedBy"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type rawAccessRequest struct {
	ID        *string `json:"id"`
	TeamID    *string `json:"teamId"`
	UserID    *string `json:"userId"`
	Message   *string `json:"message"`
	Status    *string `json:"status"`
	DecidedBy *string `json:"decidedBy"`
	DecidedAt *string `json:"decidedAt"`
	CreatedAt *string `json:"createdAt"`
}

type rawQuestion struct {
	ID       *string `json:"id"`
	Text     *string `json:"questionText"`
	Category *string `json:"category"`
	Order    *int    `json:"order"`
}

type rawUserResponse struct {
	ID           *string `json:"id"`
	KidProfileID *string `json:"kidProfileId"`
	QuestionID   *string `json:"questionId"`
	Answer       *string `json:"answer"`
	AskedAt      *string `json:"askedAt"`
	CreatedAt    *string `json:"createdAt"`
}

type rawBlogPost struct {
	ID        *string `json:"id"`
	AuthorID  *string `json:"authorId"`
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Status    *string `json:"status"`
	Flagged   *bool   `json:"flagged"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type rawBlogComment struct {
	ID              *string `json:"id"`
	PostID          *string `json:"postId"`
	ParentCommentID *string `json:"parentCommentId"`
	AuthorID        *string `json:"authorId"`
	Body            *string `json:"body"`
	CreatedAt       *string `json:"createdAt"`
}
