package domain

import "time"

// KidProfile is the identity anchor for a child being tracked.
// Every milestone, task, assessment response and team hangs off one.
type KidProfile struct {
	ID           string
	Name         string
	DOB          *time.Time
	AgeYears     int
	HasDiagnosis bool
	ParentID     string
	TeamID       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is a registered account. Authentication itself lives with the
// external identity provider; this is the profile record it returns.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      MemberRole
	CreatedAt time.Time
}
