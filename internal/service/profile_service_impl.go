package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/Synchronicityai-org/tinywins/internal/saga"
	"github.com/google/uuid"
)

// teamCreateAttempts bounds the retry around team creation during
// registration; the backend sheds load on this call often enough that a
// single attempt loses real sign-ups.
const (
	teamCreateAttempts = 3
	teamCreateBackoff  = 500 * time.Millisecond
)

type profileService struct {
	profiles repository.KidProfileStore
	teams    repository.TeamStore
	runner   *saga.Runner
	now      Clock
}

// NewProfileService creates a ProfileService. Registration writes run
// through the given saga runner.
func NewProfileService(profiles repository.KidProfileStore, teams repository.TeamStore, runner *saga.Runner) ProfileService {
	return &profileService{profiles: profiles, teams: teams, runner: runner, now: time.Now}
}

func (s *profileService) Register(ctx context.Context, p *domain.KidProfile, parent *domain.User) error {
	if p.Name == "" {
		return fmt.Errorf("profile requires a name")
	}
	if parent == nil || parent.ID == "" {
		return fmt.Errorf("profile requires an owning parent")
	}

	now := s.now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ParentID = parent.ID
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.DOB != nil {
		p.AgeYears = ageYears(*p.DOB, now)
	}

	team := &domain.Team{
		ID:           uuid.New().String(),
		KidProfileID: p.ID,
		Name:         p.Name + "'s Team",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.TeamID = team.ID

	member := &domain.TeamMember{
		ID:        uuid.New().String(),
		TeamID:    team.ID,
		UserID:    parent.ID,
		Role:      domain.RoleParent,
		Status:    domain.MemberActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.runner.Execute(ctx, []saga.Step{
		{
			Name: "create kid profile",
			Run: func(ctx context.Context) error {
				return s.profiles.CreateProfile(ctx, p)
			},
			Compensate: func(ctx context.Context) error {
				return s.profiles.DeleteProfile(ctx, p.ID)
			},
		},
		{
			Name:     "create team",
			Attempts: teamCreateAttempts,
			Backoff:  teamCreateBackoff,
			Run: func(ctx context.Context) error {
				return s.teams.CreateTeam(ctx, team)
			},
			Compensate: func(ctx context.Context) error {
				return s.teams.DeleteTeam(ctx, team.ID)
			},
		},
		{
			Name: "add owner membership",
			Run: func(ctx context.Context) error {
				return s.teams.CreateMember(ctx, member)
			},
		},
	})
}

func (s *profileService) GetByID(ctx context.Context, id string) (*domain.KidProfile, error) {
	return s.profiles.GetProfile(ctx, id)
}

func (s *profileService) ListByParent(ctx context.Context, parentID string) ([]*domain.KidProfile, error) {
	return s.profiles.ListProfilesByParent(ctx, parentID)
}

func (s *profileService) Update(ctx context.Context, p *domain.KidProfile) error {
	now := s.now().UTC()
	p.UpdatedAt = now
	if p.DOB != nil {
		p.AgeYears = ageYears(*p.DOB, now)
	}
	return s.profiles.UpdateProfile(ctx, p)
}

func (s *profileService) Delete(ctx context.Context, id string) error {
	return s.profiles.DeleteProfile(ctx, id)
}

// ageYears computes whole years between dob and now.
func ageYears(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
