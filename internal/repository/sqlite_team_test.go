package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/Synchronicityai-org/tinywins/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamCRUD(t *testing.T) {
	store := repository.NewSQLiteTeamStore(testutil.NewTestDB(t))
	ctx := context.Background()

	team := testutil.NewTestTeam("kid-1", "Milo's Team")
	require.NoError(t, store.CreateTeam(ctx, team))

	got, err := store.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milo's Team", got.Name)

	byKid, err := store.GetTeamByKid(ctx, "kid-1")
	require.NoError(t, err)
	assert.Equal(t, team.ID, byKid.ID)

	_, err = store.GetTeamByKid(ctx, "kid-2")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.DeleteTeam(ctx, team.ID))
	_, err = store.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func newMember(teamID, userID string, role domain.MemberRole, at time.Time) *domain.TeamMember {
	return &domain.TeamMember{
		ID:        teamID + "/" + userID,
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		Status:    domain.MemberActive,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestTeamMembers(t *testing.T) {
	store := repository.NewSQLiteTeamStore(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateMember(ctx, newMember("team-1", "user-1", domain.RoleParent, base)))
	require.NoError(t, store.CreateMember(ctx, newMember("team-1", "user-2", domain.RoleTherapist, base.Add(time.Hour))))
	require.NoError(t, store.CreateMember(ctx, newMember("team-2", "user-3", domain.RoleEducator, base)))

	members, err := store.ListMembers(ctx, "team-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	// Oldest membership first.
	assert.Equal(t, "user-1", members[0].UserID)
	assert.Equal(t, domain.RoleParent, members[0].Role)
	assert.Equal(t, "user-2", members[1].UserID)

	m := members[1]
	m.Status = domain.MemberInactive
	m.UpdatedAt = base.Add(2 * time.Hour)
	require.NoError(t, store.UpdateMember(ctx, &m))

	members, err = store.ListMembers(ctx, "team-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MemberInactive, members[1].Status)

	require.NoError(t, store.DeleteMember(ctx, m.ID))
	members, err = store.ListMembers(ctx, "team-1")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestUpdateMember_NotFound(t *testing.T) {
	store := repository.NewSQLiteTeamStore(testutil.NewTestDB(t))
	m := newMember("team-1", "ghost", domain.RoleParent, time.Now().UTC())
	assert.ErrorIs(t, store.UpdateMember(context.Background(), m), repository.ErrNotFound)
}

func TestAccessRequests(t *testing.T) {
	store := repository.NewSQLiteTeamStore(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	r := &domain.AccessRequest{
		ID:        "req-1",
		TeamID:    "team-1",
		UserID:    "user-9",
		Message:   "I'm Milo's speech therapist",
		Status:    domain.RequestPending,
		CreatedAt: base,
	}
	require.NoError(t, store.CreateRequest(ctx, r))

	got, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, got.Status)
	assert.Nil(t, got.DecidedAt)

	pending, err := store.ListRequests(ctx, "team-1", domain.RequestPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	decidedAt := base.Add(time.Hour)
	got.Status = domain.RequestApproved
	got.DecidedBy = "user-1"
	got.DecidedAt = &decidedAt
	require.NoError(t, store.UpdateRequest(ctx, got))

	reloaded, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, reloaded.Status)
	assert.Equal(t, "user-1", reloaded.DecidedBy)
	require.NotNil(t, reloaded.DecidedAt)
	assert.True(t, reloaded.DecidedAt.Equal(decidedAt))

	// Status filter no longer matches.
	pending, err = store.ListRequests(ctx, "team-1", domain.RequestPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
	approved, err := store.ListRequests(ctx, "team-1", domain.RequestApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}
