package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type teamService struct {
	teams repository.TeamStore
	users repository.UserStore
	log   *zap.Logger
	now   Clock
}

// NewTeamService creates a TeamService backed by the given stores.
func NewTeamService(teams repository.TeamStore, users repository.UserStore, log *zap.Logger) TeamService {
	if log == nil {
		log = zap.NewNop()
	}
	return &teamService{teams: teams, users: users, log: log, now: time.Now}
}

func (s *teamService) GetByKid(ctx context.Context, kidProfileID string) (*domain.Team, error) {
	return s.teams.GetTeamByKid(ctx, kidProfileID)
}

func (s *teamService) Roster(ctx context.Context, teamID string) ([]RosterEntry, error) {
	members, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	// Member user records are independent reads; fetch them
	// concurrently and drop the ones that fail to resolve.
	users := make([]*domain.User, len(members))
	var wg sync.WaitGroup
	for i, m := range members {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			u, err := s.users.GetUser(ctx, userID)
			if err != nil {
				s.log.Warn("could not resolve team member user",
					zap.String("user_id", userID),
					zap.Error(err))
				return
			}
			users[i] = u
		}(i, m.UserID)
	}
	wg.Wait()

	var roster []RosterEntry
	for i, m := range members {
		if users[i] == nil {
			continue
		}
		roster = append(roster, RosterEntry{Member: m, User: *users[i]})
	}
	return roster, nil
}

func (s *teamService) Invite(ctx context.Context, teamID, userID string, role domain.MemberRole, invitedBy string) (*domain.TeamMember, error) {
	now := s.now().UTC()
	m := &domain.TeamMember{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		Status:    domain.MemberPending,
		InvitedBy: invitedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teams.CreateMember(ctx, m); err != nil {
		return nil, fmt.Errorf("creating invitation: %w", err)
	}
	return m, nil
}

func (s *teamService) RequestAccess(ctx context.Context, teamID, userID, message string) (*domain.AccessRequest, error) {
	r := &domain.AccessRequest{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		UserID:    userID,
		Message:   message,
		Status:    domain.RequestPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.teams.CreateRequest(ctx, r); err != nil {
		return nil, fmt.Errorf("creating access request: %w", err)
	}
	return r, nil
}

func (s *teamService) PendingRequests(ctx context.Context, teamID string) ([]domain.AccessRequest, error) {
	return s.teams.ListRequests(ctx, teamID, domain.RequestPending)
}

func (s *teamService) Approve(ctx context.Context, requestID string, role domain.MemberRole, decidedBy string) (*domain.TeamMember, error) {
	r, err := s.teams.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.RequestPending {
		return nil, fmt.Errorf("access request %s already %s", requestID, r.Status)
	}

	now := s.now().UTC()
	member := &domain.TeamMember{
		ID:        uuid.New().String(),
		TeamID:    r.TeamID,
		UserID:    r.UserID,
		Role:      role,
		Status:    domain.MemberActive,
		InvitedBy: decidedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teams.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("creating membership: %w", err)
	}

	r.Status = domain.RequestApproved
	r.DecidedBy = decidedBy
	r.DecidedAt = &now
	if err := s.teams.UpdateRequest(ctx, r); err != nil {
		// Membership already exists; undo it so approval stays atomic
		// from the caller's point of view.
		if delErr := s.teams.DeleteMember(ctx, member.ID); delErr != nil {
			s.log.Error("compensating member delete failed",
				zap.String("member_id", member.ID),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("marking request approved: %w", err)
	}
	return member, nil
}

func (s *teamService) Reject(ctx context.Context, requestID, decidedBy string) error {
	r, err := s.teams.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if r.Status != domain.RequestPending {
		return fmt.Errorf("access request %s already %s", requestID, r.Status)
	}
	now := s.now().UTC()
	r.Status = domain.RequestRejected
	r.DecidedBy = decidedBy
	r.DecidedAt = &now
	return s.teams.UpdateRequest(ctx, r)
}
