package invitation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/project"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/infrastructure/cache"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[uint]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*user.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = r.seq
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByFilter(ctx context.Context, filter user.UserFilter, pagination *query.Pagination) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*user.User
	for _, u := range r.users {
		if filter.PublicID != nil && u.PublicID != *filter.PublicID {
			continue
		}
		if filter.Username != nil && u.Username != *filter.Username {
			continue
		}
		if filter.Email != nil && u.Email != *filter.Email {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter user.UserFilter) (int64, error) {
	users, _ := r.FindByFilter(ctx, filter, nil)
	return int64(len(users)), nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	seq      uint
	projects map[uint]*project.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uint]*project.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = r.seq
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id uint) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) FindByPublicID(ctx context.Context, publicID string) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.PublicID == publicID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindByFilter(ctx context.Context, filter project.ProjectFilter, pagination *query.Pagination) ([]*project.Project, error) {
	return nil, nil
}

func (r *fakeProjectRepo) Count(ctx context.Context, filter project.ProjectFilter) (int64, error) {
	return 0, nil
}

type fakeCodeRepoRepo struct {
	mu    sync.Mutex
	seq   uint
	repos map[uint]*coderepo.Repository
}

func newFakeCodeRepoRepo() *fakeCodeRepoRepo {
	return &fakeCodeRepoRepo{repos: map[uint]*coderepo.Repository{}}
}

func (r *fakeCodeRepoRepo) Create(ctx context.Context, entity *coderepo.Repository) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entity.ID = r.seq
	cp := *entity
	r.repos[entity.ID] = &cp
	return nil
}

func (r *fakeCodeRepoRepo) Update(ctx context.Context, entity *coderepo.Repository) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entity
	r.repos[entity.ID] = &cp
	return nil
}

func (r *fakeCodeRepoRepo) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.repos, id)
	return nil
}

func (r *fakeCodeRepoRepo) FindByID(ctx context.Context, id uint) (*coderepo.Repository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.repos[id]
	if !ok {
		return nil, nil
	}
	cp := *entity
	return &cp, nil
}

func (r *fakeCodeRepoRepo) FindByPublicID(ctx context.Context, publicID string) (*coderepo.Repository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entity := range r.repos {
		if entity.PublicID == publicID {
			cp := *entity
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCodeRepoRepo) FindByFilter(ctx context.Context, filter coderepo.RepositoryFilter, pagination *query.Pagination) ([]*coderepo.Repository, error) {
	return nil, nil
}

func (r *fakeCodeRepoRepo) Count(ctx context.Context, filter coderepo.RepositoryFilter) (int64, error) {
	return 0, nil
}

type membershipKey struct {
	userID   uint
	kind     membership.TargetKind
	targetID uint
}

type fakeMembershipRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[membershipKey]*membership.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{rows: map[membershipKey]*membership.Membership{}}
}

func (r *fakeMembershipRepo) Upsert(ctx context.Context, m *membership.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := membershipKey{m.UserID, m.TargetKind, m.TargetID}
	if existing, ok := r.rows[key]; ok {
		existing.Permission = m.Permission
		existing.JoinedAt = m.JoinedAt
		m.ID = existing.ID
		return nil
	}
	r.seq++
	m.ID = r.seq
	cp := *m
	r.rows[key] = &cp
	return nil
}

func (r *fakeMembershipRepo) Find(ctx context.Context, userID uint, kind membership.TargetKind, targetID uint) (*membership.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[membershipKey{userID, kind, targetID}]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMembershipRepo) FindAllForUser(ctx context.Context, userID uint) ([]*membership.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*membership.Membership
	for _, m := range r.rows {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) FindAllForTarget(ctx context.Context, kind membership.TargetKind, targetID uint) ([]*membership.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*membership.Membership
	for _, m := range r.rows {
		if m.TargetKind == kind && m.TargetID == targetID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) Delete(ctx context.Context, userID uint, kind membership.TargetKind, targetID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, membershipKey{userID, kind, targetID})
	return nil
}

type fakeInvitationRepo struct {
	mu      sync.Mutex
	seq     uint
	byToken map[string]*Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byToken: map[string]*Invitation{}}
}

func (r *fakeInvitationRepo) Create(ctx context.Context, i *Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	i.ID = r.seq
	cp := *i
	r.byToken[i.Token] = &cp
	return nil
}

func (r *fakeInvitationRepo) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *entity
	return &cp, nil
}

func (r *fakeInvitationRepo) FindByFilter(ctx context.Context, filter InvitationsFilter, pagination *query.Pagination) ([]*Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Invitation
	for _, entity := range r.byToken {
		if filter.InvitedUserID != nil && entity.InvitedUserID != *filter.InvitedUserID {
			continue
		}
		if filter.TargetKind != nil && entity.TargetKind != *filter.TargetKind {
			continue
		}
		if filter.TargetID != nil && entity.TargetID != *filter.TargetID {
			continue
		}
		if len(filter.States) > 0 {
			matched := false
			for _, s := range filter.States {
				if entity.State == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		cp := *entity
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInvitationRepo) Count(ctx context.Context, filter InvitationsFilter) (int64, error) {
	entities, _ := r.FindByFilter(ctx, filter, nil)
	return int64(len(entities)), nil
}

func (r *fakeInvitationRepo) UpdateState(ctx context.Context, token string, from, to State, respondedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.byToken[token]
	if !ok || entity.State != from {
		return false, nil
	}
	entity.State = to
	entity.RespondedAt = respondedAt
	return true, nil
}

func (r *fakeInvitationRepo) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, entity := range r.byToken {
		if entity.State == StatePending && entity.ExpiresAt.Before(cutoff) {
			entity.State = StateExpired
			n++
		}
	}
	return n, nil
}

type fixture struct {
	service  *InvitationService
	invRepo  *fakeInvitationRepo
	members  *fakeMembershipRepo
	users    *fakeUserRepo
	projects *fakeProjectRepo
	repos    *fakeCodeRepoRepo

	owner   *user.User
	invitee *user.User
	admin   *user.User
	proj    *project.Project
	repo    *coderepo.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		invRepo:  newFakeInvitationRepo(),
		members:  newFakeMembershipRepo(),
		users:    newFakeUserRepo(),
		projects: newFakeProjectRepo(),
		repos:    newFakeCodeRepoRepo(),
	}
	f.service = NewService(
		f.invRepo,
		f.members,
		project.NewService(f.projects),
		coderepo.NewService(f.repos),
		user.NewService(f.users),
		cache.NewMemoryCacheService(),
	)

	f.owner = &user.User{PublicID: "user_owner", Username: "owner", Email: "owner@example.com", Role: user.RoleMember, Enabled: true}
	require.NoError(t, f.users.Create(ctx, f.owner))
	f.invitee = &user.User{PublicID: "user_invitee", Username: "invitee", Email: "invitee@example.com", Role: user.RoleMember, Enabled: true}
	require.NoError(t, f.users.Create(ctx, f.invitee))
	f.admin = &user.User{PublicID: "user_admin", Username: "root", Email: "root@example.com", Role: user.RoleSuperAdmin, Enabled: true}
	require.NoError(t, f.users.Create(ctx, f.admin))

	f.proj = &project.Project{PublicID: "proj_test", Name: "billing", OwnerID: f.owner.ID, Status: string(project.ProjectStatusActive)}
	require.NoError(t, f.projects.Create(ctx, f.proj))
	f.repo = &coderepo.Repository{PublicID: "repo_test", Name: "billing-api", OwnerID: f.owner.ID, Visibility: string(coderepo.VisibilityPrivate)}
	require.NoError(t, f.repos.Create(ctx, f.repo))
	return f
}

func TestIssueCreatesPendingInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionEditor)
	require.NoError(t, err)
	assert.Equal(t, StatePending, entity.State)
	assert.True(t, strings.HasPrefix(entity.Token, "invt_"))
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), entity.ExpiresAt, time.Minute)
	assert.Nil(t, entity.RespondedAt)
}

func TestIssueRejectsInvalidPermissionForRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindRepository, f.repo.ID, membership.PermissionAdmin)
	assert.ErrorIs(t, err, common.ErrInvalidPermission)

	_, err = f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindRepository, f.repo.ID, membership.PermissionCommenter)
	assert.ErrorIs(t, err, common.ErrInvalidPermission)

	_, err = f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindRepository, f.repo.ID, membership.PermissionEditor)
	assert.NoError(t, err)
}

func TestIssueAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A plain member with no standing on the project cannot invite.
	_, err := f.service.Issue(ctx, f.invitee.ID, f.owner.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	// A superadmin can.
	_, err = f.service.Issue(ctx, f.admin.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	assert.NoError(t, err)

	// A project member holding the admin level can.
	projAdmin := &user.User{PublicID: "user_pa", Username: "pa", Email: "pa@example.com", Role: user.RoleMember, Enabled: true}
	require.NoError(t, f.users.Create(ctx, projAdmin))
	require.NoError(t, f.members.Upsert(ctx, &membership.Membership{
		UserID: projAdmin.ID, TargetKind: membership.TargetKindProject, TargetID: f.proj.ID,
		Permission: membership.PermissionAdmin, JoinedAt: time.Now(),
	}))
	_, err = f.service.Issue(ctx, projAdmin.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	assert.NoError(t, err)
}

func TestIssueSupersedesPriorPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)
	second, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionEditor)
	require.NoError(t, err)

	stale, err := f.invRepo.FindByToken(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, StateExpired, stale.State)

	pending, err := f.service.ListPending(ctx, f.invitee.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.Token, pending[0].Token)
}

func TestAcceptMaterializesMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionEditor)
	require.NoError(t, err)

	accepted, err := f.service.Accept(ctx, entity.Token)
	require.NoError(t, err)
	assert.Equal(t, StateAccepted, accepted.State)
	require.NotNil(t, accepted.RespondedAt)

	m, err := f.members.Find(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, membership.PermissionEditor, m.Permission)
}

func TestAcceptIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)
	_, err = f.service.Accept(ctx, entity.Token)
	require.NoError(t, err)

	_, err = f.service.Accept(ctx, entity.Token)
	assert.ErrorIs(t, err, common.ErrAlreadyProcessed)
	_, err = f.service.Reject(ctx, entity.Token)
	assert.ErrorIs(t, err, common.ErrAlreadyProcessed)

	// The membership created by the first accept survives the late reject.
	m, err := f.members.Find(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestRejectNeverTouchesMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Pre-existing membership from an earlier grant.
	require.NoError(t, f.members.Upsert(ctx, &membership.Membership{
		UserID: f.invitee.ID, TargetKind: membership.TargetKindProject, TargetID: f.proj.ID,
		Permission: membership.PermissionViewer, JoinedAt: time.Now(),
	}))

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionEditor)
	require.NoError(t, err)
	rejected, err := f.service.Reject(ctx, entity.Token)
	require.NoError(t, err)
	assert.Equal(t, StateRejected, rejected.State)

	m, err := f.members.Find(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, membership.PermissionViewer, m.Permission)
}

func TestReAcceptUpdatesPermissionInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)
	_, err = f.service.Accept(ctx, first.Token)
	require.NoError(t, err)

	second, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionAdmin)
	require.NoError(t, err)
	_, err = f.service.Accept(ctx, second.Token)
	require.NoError(t, err)

	rows, err := f.members.FindAllForTarget(ctx, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, membership.PermissionAdmin, rows[0].Permission)
}

func TestAcceptExpiredInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)

	// Force the deadline into the past.
	f.invRepo.mu.Lock()
	f.invRepo.byToken[entity.Token].ExpiresAt = time.Now().Add(-time.Hour)
	f.invRepo.mu.Unlock()

	_, err = f.service.Accept(ctx, entity.Token)
	assert.ErrorIs(t, err, common.ErrInvitationExpired)

	stored, err := f.invRepo.FindByToken(ctx, entity.Token)
	require.NoError(t, err)
	assert.Equal(t, StateExpired, stored.State)

	m, err := f.members.Find(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestUnknownTokenIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Accept(ctx, "invt_does_not_exist")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	_, err = f.service.Reject(ctx, "invt_does_not_exist")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestConcurrentAcceptRejectHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionEditor)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var acceptErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = f.service.Accept(ctx, entity.Token)
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = f.service.Reject(ctx, entity.Token)
	}()
	wg.Wait()

	wins := 0
	if acceptErr == nil {
		wins++
	}
	if rejectErr == nil {
		wins++
	}
	require.Equal(t, 1, wins, "exactly one responder must win")

	stored, err := f.invRepo.FindByToken(ctx, entity.Token)
	require.NoError(t, err)
	m, err := f.members.Find(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	if acceptErr == nil {
		assert.Equal(t, StateAccepted, stored.State)
		assert.NotNil(t, m)
	} else {
		assert.ErrorIs(t, acceptErr, common.ErrAlreadyProcessed)
		assert.Equal(t, StateRejected, stored.State)
		assert.Nil(t, m)
	}
}

func TestStatusOfReturnsLatest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)
	_, err = f.service.Reject(ctx, first.Token)
	require.NoError(t, err)
	second, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionEditor)
	require.NoError(t, err)

	latest, err := f.service.StatusOf(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Token, latest.Token)

	_, err = f.service.StatusOf(ctx, f.invitee.ID, membership.TargetKindRepository, f.repo.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExpireStaleSweepsPendingPastDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)
	fresh, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindRepository, f.repo.ID, membership.PermissionViewer)
	require.NoError(t, err)

	f.invRepo.mu.Lock()
	f.invRepo.byToken[stale.Token].ExpiresAt = time.Now().Add(-time.Hour)
	f.invRepo.mu.Unlock()

	n, err := f.service.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	staleStored, _ := f.invRepo.FindByToken(ctx, stale.Token)
	assert.Equal(t, StateExpired, staleStored.State)
	freshStored, _ := f.invRepo.FindByToken(ctx, fresh.Token)
	assert.Equal(t, StatePending, freshStored.State)
}

func TestRevokeMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.service.RevokeMembership(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	entity, err := f.service.Issue(ctx, f.owner.ID, f.invitee.ID, membership.TargetKindProject, f.proj.ID, membership.PermissionViewer)
	require.NoError(t, err)
	_, err = f.service.Accept(ctx, entity.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeMembership(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID))
	m, err := f.members.Find(ctx, f.invitee.ID, membership.TargetKindProject, f.proj.ID)
	require.NoError(t, err)
	assert.Nil(t, m)
}
