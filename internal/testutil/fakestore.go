package testutil

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
)

// FakeMilestoneStore serves scripted pages of milestones and tasks so
// tests can pin down the continuation-token loop: how many fetches were
// issued, what happens when a mid-sequence page fails, and that page
// order is preserved.
type FakeMilestoneStore struct {
	MilestonePages [][]domain.Milestone
	TaskPages      [][]domain.Task

	// FailMilestonePage / FailTaskPage make the Nth (1-based) page
	// fetch fail; 0 disables.
	FailMilestonePage int
	FailTaskPage      int

	MilestoneFetches int
	TaskFetches      int

	UpdateErr error // returned by UpdateMilestone/UpdateTask when set

	Updated []string // ids passed to UpdateMilestone/UpdateTask
}

var _ repository.MilestoneStore = (*FakeMilestoneStore)(nil)

func pageFromToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("bad test page token %q", token)
	}
	return n, nil
}

func nextToken(page, total int) string {
	if page+1 >= total {
		return ""
	}
	return strconv.Itoa(page + 1)
}

func (f *FakeMilestoneStore) ListMilestones(_ context.Context, _, token string) ([]domain.Milestone, string, error) {
	f.MilestoneFetches++
	if f.FailMilestonePage > 0 && f.MilestoneFetches == f.FailMilestonePage {
		return nil, "", fmt.Errorf("milestone page %d unavailable", f.FailMilestonePage)
	}
	page, err := pageFromToken(token)
	if err != nil {
		return nil, "", err
	}
	if page >= len(f.MilestonePages) {
		return nil, "", nil
	}
	return f.MilestonePages[page], nextToken(page, len(f.MilestonePages)), nil
}

func (f *FakeMilestoneStore) ListTasks(_ context.Context, _, token string) ([]domain.Task, string, error) {
	f.TaskFetches++
	if f.FailTaskPage > 0 && f.TaskFetches == f.FailTaskPage {
		return nil, "", fmt.Errorf("task page %d unavailable", f.FailTaskPage)
	}
	page, err := pageFromToken(token)
	if err != nil {
		return nil, "", err
	}
	if page >= len(f.TaskPages) {
		return nil, "", nil
	}
	return f.TaskPages[page], nextToken(page, len(f.TaskPages)), nil
}

func (f *FakeMilestoneStore) CreateMilestone(_ context.Context, m *domain.Milestone) error {
	if len(f.MilestonePages) == 0 {
		f.MilestonePages = [][]domain.Milestone{nil}
	}
	f.MilestonePages[0] = append(f.MilestonePages[0], *m)
	return nil
}

func (f *FakeMilestoneStore) GetMilestone(_ context.Context, id string) (*domain.Milestone, error) {
	for _, page := range f.MilestonePages {
		for i := range page {
			if page[i].ID == id {
				m := page[i]
				return &m, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeMilestoneStore) UpdateMilestone(_ context.Context, m *domain.Milestone) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for _, page := range f.MilestonePages {
		for i := range page {
			if page[i].ID == m.ID {
				page[i] = *m
				f.Updated = append(f.Updated, m.ID)
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *FakeMilestoneStore) DeleteMilestone(_ context.Context, id string) error {
	for pi, page := range f.MilestonePages {
		for i := range page {
			if page[i].ID == id {
				f.MilestonePages[pi] = append(page[:i:i], page[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *FakeMilestoneStore) CreateTask(_ context.Context, t *domain.Task) error {
	if len(f.TaskPages) == 0 {
		f.TaskPages = [][]domain.Task{nil}
	}
	f.TaskPages[0] = append(f.TaskPages[0], *t)
	return nil
}

func (f *FakeMilestoneStore) GetTask(_ context.Context, id string) (*domain.Task, error) {
	for _, page := range f.TaskPages {
		for i := range page {
			if page[i].ID == id {
				t := page[i]
				return &t, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeMilestoneStore) UpdateTask(_ context.Context, t *domain.Task) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for _, page := range f.TaskPages {
		for i := range page {
			if page[i].ID == t.ID {
				page[i] = *t
				f.Updated = append(f.Updated, t.ID)
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *FakeMilestoneStore) DeleteTask(_ context.Context, id string) error {
	for pi, page := range f.TaskPages {
		for i := range page {
			if page[i].ID == id {
				f.TaskPages[pi] = append(page[:i:i], page[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

// FakeProfileStore records profile writes and lets tests inject errors.
type FakeProfileStore struct {
	Profiles map[string]*domain.KidProfile

	CreateErr error
	Deleted   []string
}

var _ repository.KidProfileStore = (*FakeProfileStore)(nil)

func NewFakeProfileStore() *FakeProfileStore {
	return &FakeProfileStore{Profiles: map[string]*domain.KidProfile{}}
}

func (f *FakeProfileStore) CreateProfile(_ context.Context, p *domain.KidProfile) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	cp := *p
	f.Profiles[p.ID] = &cp
	return nil
}

func (f *FakeProfileStore) GetProfile(_ context.Context, id string) (*domain.KidProfile, error) {
	p, ok := f.Profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *FakeProfileStore) ListProfilesByParent(_ context.Context, parentID string) ([]*domain.KidProfile, error) {
	var out []*domain.KidProfile
	for _, p := range f.Profiles {
		if p.ParentID == parentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *FakeProfileStore) UpdateProfile(_ context.Context, p *domain.KidProfile) error {
	if _, ok := f.Profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.Profiles[p.ID] = &cp
	return nil
}

func (f *FakeProfileStore) DeleteProfile(_ context.Context, id string) error {
	delete(f.Profiles, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

// FakeTeamStore records team writes; CreateTeamErrs is consumed one
// error per CreateTeam call (nil entries succeed), so tests can script
// "fail twice, then succeed" retry sequences.
type FakeTeamStore struct {
	Teams    map[string]*domain.Team
	Members  map[string]*domain.TeamMember
	Requests map[string]*domain.AccessRequest

	CreateTeamErrs   []error
	CreateTeamCalls  int
	CreateMemberErr  error
	UpdateRequestErr error
	DeletedTeams     []string
	DeletedMembers   []string
}

var _ repository.TeamStore = (*FakeTeamStore)(nil)

func NewFakeTeamStore() *FakeTeamStore {
	return &FakeTeamStore{
		Teams:    map[string]*domain.Team{},
		Members:  map[string]*domain.TeamMember{},
		Requests: map[string]*domain.AccessRequest{},
	}
}

func (f *FakeTeamStore) CreateTeam(_ context.Context, tm *domain.Team) error {
	call := f.CreateTeamCalls
	f.CreateTeamCalls++
	if call < len(f.CreateTeamErrs) && f.CreateTeamErrs[call] != nil {
		return f.CreateTeamErrs[call]
	}
	cp := *tm
	f.Teams[tm.ID] = &cp
	return nil
}

func (f *FakeTeamStore) GetTeam(_ context.Context, id string) (*domain.Team, error) {
	tm, ok := f.Teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tm
	return &cp, nil
}

func (f *FakeTeamStore) GetTeamByKid(_ context.Context, kidProfileID string) (*domain.Team, error) {
	for _, tm := range f.Teams {
		if tm.KidProfileID == kidProfileID {
			cp := *tm
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeTeamStore) DeleteTeam(_ context.Context, id string) error {
	delete(f.Teams, id)
	f.DeletedTeams = append(f.DeletedTeams, id)
	return nil
}

func (f *FakeTeamStore) CreateMember(_ context.Context, m *domain.TeamMember) error {
	if f.CreateMemberErr != nil {
		return f.CreateMemberErr
	}
	cp := *m
	f.Members[m.ID] = &cp
	return nil
}

func (f *FakeTeamStore) ListMembers(_ context.Context, teamID string) ([]domain.TeamMember, error) {
	var out []domain.TeamMember
	for _, m := range f.Members {
		if m.TeamID == teamID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *FakeTeamStore) UpdateMember(_ context.Context, m *domain.TeamMember) error {
	if _, ok := f.Members[m.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *m
	f.Members[m.ID] = &cp
	return nil
}

func (f *FakeTeamStore) DeleteMember(_ context.Context, id string) error {
	delete(f.Members, id)
	f.DeletedMembers = append(f.DeletedMembers, id)
	return nil
}

func (f *FakeTeamStore) CreateRequest(_ context.Context, r *domain.AccessRequest) error {
	cp := *r
	f.Requests[r.ID] = &cp
	return nil
}

func (f *FakeTeamStore) GetRequest(_ context.Context, id string) (*domain.AccessRequest, error) {
	r, ok := f.Requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *FakeTeamStore) ListRequests(_ context.Context, teamID string, status domain.RequestStatus) ([]domain.AccessRequest, error) {
	var out []domain.AccessRequest
	for _, r := range f.Requests {
		if r.TeamID == teamID && r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *FakeTeamStore) UpdateRequest(_ context.Context, r *domain.AccessRequest) error {
	if f.UpdateRequestErr != nil {
		return f.UpdateRequestErr
	}
	if _, ok := f.Requests[r.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *r
	f.Requests[r.ID] = &cp
	return nil
}

// FakeUserStore serves user records; GetErrs injects per-id failures.
type FakeUserStore struct {
	Users   map[string]*domain.User
	GetErrs map[string]error
}

var _ repository.UserStore = (*FakeUserStore)(nil)

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{Users: map[string]*domain.User{}, GetErrs: map[string]error{}}
}

func (f *FakeUserStore) CreateUser(_ context.Context, u *domain.User) error {
	cp := *u
	f.Users[u.ID] = &cp
	return nil
}

func (f *FakeUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	if err, ok := f.GetErrs[id]; ok {
		return nil, err
	}
	u, ok := f.Users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
