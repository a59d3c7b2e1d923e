package domain

import "time"

// Team is the care circle around one kid profile, created 1:1 with the
// profile at registration time.
type Team struct {
	ID           string
	KidProfileID string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeamMember links a user to a team with a role.
type TeamMember struct {
	ID        string
	TeamID    string
	UserID    string
	Role      MemberRole
	Status    MemberStatus
	InvitedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccessRequest is a pending ask to join a team. Approval produces a
// TeamMember; either outcome is terminal for the request.
type AccessRequest struct {
	ID        string
	TeamID    string
	UserID    string
	Message   string
	Status    RequestStatus
	DecidedBy string
	DecidedAt *time.Time
	CreatedAt time.Time
}
