package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/saga"
	"github.com/Synchronicityai-org/tinywins/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupProfileService() (ProfileService, *testutil.FakeProfileStore, *testutil.FakeTeamStore) {
	profiles := testutil.NewFakeProfileStore()
	teams := testutil.NewFakeTeamStore()
	runner := saga.NewRunner(zap.NewNop(), saga.WithSleep(func(time.Duration) {}))
	svc := NewProfileService(profiles, teams, runner)
	return svc, profiles, teams
}

func TestRegister_CreatesProfileTeamAndOwnerMembership(t *testing.T) {
	svc, profiles, teams := setupProfileService()
	parent := testutil.NewTestUser("dana")

	p := &domain.KidProfile{Name: "Milo"}
	require.NoError(t, svc.Register(context.Background(), p, parent))

	require.Contains(t, profiles.Profiles, p.ID)
	assert.Equal(t, parent.ID, profiles.Profiles[p.ID].ParentID)

	require.Len(t, teams.Teams, 1)
	team := teams.Teams[p.TeamID]
	require.NotNil(t, team)
	assert.Equal(t, p.ID, team.KidProfileID)
	assert.Equal(t, "Milo's Team", team.Name)

	require.Len(t, teams.Members, 1)
	for _, m := range teams.Members {
		assert.Equal(t, team.ID, m.TeamID)
		assert.Equal(t, parent.ID, m.UserID)
		assert.Equal(t, domain.RoleParent, m.Role)
		assert.Equal(t, domain.MemberActive, m.Status)
	}
}

func TestRegister_TeamCreateRetriesThenSucceeds(t *testing.T) {
	svc, profiles, teams := setupProfileService()
	teams.CreateTeamErrs = []error{
		errors.New("throttled"),
		errors.New("throttled"),
		nil,
	}

	p := &domain.KidProfile{Name: "Ada"}
	require.NoError(t, svc.Register(context.Background(), p, testutil.NewTestUser("sam")))

	assert.Equal(t, 3, teams.CreateTeamCalls)
	assert.Len(t, teams.Teams, 1)
	assert.Contains(t, profiles.Profiles, p.ID)
}

func TestRegister_TeamCreateExhaustedCompensatesProfile(t *testing.T) {
	svc, profiles, teams := setupProfileService()
	boom := errors.New("backend down")
	teams.CreateTeamErrs = []error{boom, boom, boom}

	p := &domain.KidProfile{Name: "Ada"}
	err := svc.Register(context.Background(), p, testutil.NewTestUser("sam"))
	require.ErrorIs(t, err, boom)

	// The profile write is rolled back; nothing partial remains.
	assert.Empty(t, profiles.Profiles)
	assert.Contains(t, profiles.Deleted, p.ID)
	assert.Empty(t, teams.Teams)
	assert.Equal(t, 3, teams.CreateTeamCalls)
}

func TestRegister_MemberCreateFailureCompensatesTeamAndProfile(t *testing.T) {
	svc, profiles, teams := setupProfileService()
	boom := errors.New("membership rejected")
	teams.CreateMemberErr = boom

	p := &domain.KidProfile{Name: "Ada"}
	err := svc.Register(context.Background(), p, testutil.NewTestUser("sam"))
	require.ErrorIs(t, err, boom)

	assert.Empty(t, profiles.Profiles)
	assert.Empty(t, teams.Teams)
	assert.Len(t, teams.DeletedTeams, 1)
	assert.Contains(t, profiles.Deleted, p.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setupProfileService()
	assert.Error(t, svc.Register(context.Background(), &domain.KidProfile{}, testutil.NewTestUser("x")))
	assert.Error(t, svc.Register(context.Background(), &domain.KidProfile{Name: "Milo"}, nil))
}

func TestRegister_ComputesAgeFromDOB(t *testing.T) {
	svc, profiles, _ := setupProfileService()

	dob := time.Now().UTC().AddDate(-4, 0, -1)
	p := &domain.KidProfile{Name: "Milo", DOB: &dob}
	require.NoError(t, svc.Register(context.Background(), p, testutil.NewTestUser("dana")))
	assert.Equal(t, 4, profiles.Profiles[p.ID].AgeYears)
}

func TestProfileUpdateAndList(t *testing.T) {
	svc, _, _ := setupProfileService()
	ctx := context.Background()
	parent := testutil.NewTestUser("dana")

	p := &domain.KidProfile{Name: "Milo"}
	require.NoError(t, svc.Register(ctx, p, parent))

	p.Name = "Milo J."
	require.NoError(t, svc.Update(ctx, p))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milo J.", got.Name)

	list, err := svc.ListByParent(ctx, parent.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
