package backend

import (
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

// Normalization is the trust boundary: raw service records become strict
// domain structs with explicit defaults. A record without an id is
// garbage and is dropped (nil), never an error; one bad record must not
// sink a whole page.

func wireTime(s *string) time.Time {
	if s == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func wireTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}

func wireDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return wireTimePtr(s)
	}
	return &t
}

func normalizeMilestone(r rawRecord) *domain.Milestone {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.Milestone{
		ID:             *r.ID,
		KidProfileID:   domain.StrFromPtr(r.KidProfileID),
		Title:          domain.StrFromPtr(r.Title),
		Overview:       domain.StrFromPtr(r.Overview),
		Status:         domain.MilestoneStatus(domain.CoalesceStr(domain.StrFromPtr(r.Status), string(domain.StatusNotStarted))),
		ParentFeedback: domain.StrFromPtr(r.ParentFeedback),
		Sentiment:      r.Sentiment,
		FeedbackAt:     wireTimePtr(r.FeedbackAt),
		CreatedAt:      wireTime(r.CreatedAt),
		UpdatedAt:      wireTime(r.UpdatedAt),
	}
}

func normalizeTask(r rawRecord) *domain.Task {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.Task{
		ID:             *r.ID,
		MilestoneID:    domain.StrFromPtr(r.ParentID),
		KidProfileID:   domain.StrFromPtr(r.KidProfileID),
		Title:          domain.StrFromPtr(r.Title),
		Description:    domain.StrFromPtr(r.Description),
		Strategies:     domain.StrFromPtr(r.Strategies),
		Status:         domain.MilestoneStatus(domain.CoalesceStr(domain.StrFromPtr(r.Status), string(domain.StatusNotStarted))),
		ParentFeedback: domain.StrFromPtr(r.ParentFeedback),
		Sentiment:      r.Sentiment,
		FeedbackAt:     wireTimePtr(r.FeedbackAt),
		CreatedAt:      wireTime(r.CreatedAt),
		UpdatedAt:      wireTime(r.UpdatedAt),
	}
}

func normalizeKidProfile(r rawKidProfile) *domain.KidProfile {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.KidProfile{
		ID:           *r.ID,
		Name:         domain.StrFromPtr(r.Name),
		DOB:          wireDate(r.DOB),
		AgeYears:     domain.IntFromPtrWithDefault(0, r.AgeYears),
		HasDiagnosis: domain.BoolFromPtrWithDefault(false, r.HasDiagnosis),
		ParentID:     domain.StrFromPtr(r.ParentID),
		TeamID:       domain.StrFromPtr(r.TeamID),
		CreatedAt:    wireTime(r.CreatedAt),
		UpdatedAt:    wireTime(r.UpdatedAt),
	}
}

func normalizeUser(r rawUser) *domain.User {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.User{
		ID:        *r.ID,
		Email:     domain.StrFromPtr(r.Email),
		Name:      domain.StrFromPtr(r.Name),
		Role:      domain.MemberRole(domain.CoalesceStr(domain.StrFromPtr(r.Role), string(domain.RoleParent))),
		CreatedAt: wireTime(r.CreatedAt),
	}
}

func normalizeTeam(r rawTeam) *domain.Team {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.Team{
		ID:           *r.ID,
		KidProfileID: domain.StrFromPtr(r.KidProfileID),
		Name:         domain.StrFromPtr(r.Name),
		CreatedAt:    wireTime(r.CreatedAt),
		UpdatedAt:    wireTime(r.UpdatedAt),
	}
}

func normalizeTeamMember(r rawTeamMember) *domain.TeamMember {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.TeamMember{
		ID:        *r.ID,
		TeamID:    domain.StrFromPtr(r.TeamID),
		UserID:    domain.StrFromPtr(r.UserID),
		Role:      domain.MemberRole(domain.CoalesceStr(domain.StrFromPtr(r.Role), string(domain.RoleCaregiver))),
		Status:    domain.MemberStatus(domain.CoalesceStr(domain.StrFromPtr(r.Status), string(domain.MemberPending))),
		InvitedBy: domain.StrFromPtr(r.InvitedBy),
		CreatedAt: wireTime(r.CreatedAt),
		UpdatedAt: wireTime(r.UpdatedAt),
	}
}

func normalizeAccessRequest(r rawAccessRequest) *domain.AccessRequest {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.AccessRequest{
		ID:        *r.ID,
		TeamID:    domain.StrFromPtr(r.TeamID),
		UserID:    domain.StrFromPtr(r.UserID),
		Message:   domain.StrFromPtr(r.Message),
		Status:    domain.RequestStatus(domain.CoalesceStr(domain.StrFromPtr(r.Status), string(domain.RequestPending))),
		DecidedBy: domain.StrFromPtr(r.DecidedBy),
		DecidedAt: wireTimePtr(r.DecidedAt),
		CreatedAt: wireTime(r.CreatedAt),
	}
}

func normalizeQuestion(r rawQuestion) *domain.Question {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.Question{
		ID:       *r.ID,
		Text:     domain.StrFromPtr(r.Text),
		Category: domain.QuestionCategory(domain.StrFromPtr(r.Category)),
		Order:    domain.IntFromPtrWithDefault(0, r.Order),
	}
}

func normalizeUserResponse(r rawUserResponse) *domain.UserResponse {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.UserResponse{
		ID:           *r.ID,
		KidProfileID: domain.StrFromPtr(r.KidProfileID),
		QuestionID:   domain.StrFromPtr(r.QuestionID),
		Answer:       domain.StrFromPtr(r.Answer),
		AskedAt:      wireTime(r.AskedAt),
		CreatedAt:    wireTime(r.CreatedAt),
	}
}

func normalizeBlogPost(r rawBlogPost) *domain.BlogPost {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.BlogPost{
		ID:        *r.ID,
		AuthorID:  domain.StrFromPtr(r.AuthorID),
		Title:     domain.StrFromPtr(r.Title),
		Body:      domain.StrFromPtr(r.Body),
		Status:    domain.PostStatus(domain.CoalesceStr(domain.StrFromPtr(r.Status), string(domain.PostDraft))),
		Flagged:   domain.BoolFromPtrWithDefault(false, r.Flagged),
		CreatedAt: wireTime(r.CreatedAt),
		UpdatedAt: wireTime(r.UpdatedAt),
	}
}

func normalizeBlogComment(r rawBlogComment) *domain.BlogComment {
	if domain.StrFromPtr(r.ID) == "" {
		return nil
	}
	return &domain.BlogComment{
		ID:              *r.ID,
		PostID:          domain.StrFromPtr(r.PostID),
		ParentCommentID: domain.StrFromPtr(r.ParentCommentID),
		AuthorID:        domain.StrFromPtr(r.AuthorID),
		Body:            domain.StrFromPtr(r.Body),
		CreatedAt:       wireTime(r.CreatedAt),
	}
}
