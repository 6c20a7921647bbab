package impersonationroute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/impersonation"
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
		if filter.Username != nil && u.Username != *filter.Username {
			continue
		}
		if filter.PublicID != nil && u.PublicID != *filter.PublicID {
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

type fakeRecordRepo struct {
	mu      sync.Mutex
	seq     uint
	records []*impersonation.Record
}

func (r *fakeRecordRepo) Create(ctx context.Context, record *impersonation.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	record.ID = r.seq
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeRecordRepo) FindOpenByTargetUserID(ctx context.Context, targetUserID uint) (*impersonation.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].TargetUserID == targetUserID && r.records[i].EndedAt == nil {
			cp := *r.records[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRecordRepo) FindAllForAdmin(ctx context.Context, adminUserID uint) ([]*impersonation.Record, error) {
	return nil, nil
}

func (r *fakeRecordRepo) Update(ctx context.Context, record *impersonation.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == record.ID {
			cp := *record
			r.records[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("record not found")
}

type testEnv struct {
	engine         *gin.Engine
	sessionService *authDomain.SessionService
	service        *impersonation.ImpersonationService
	admin          *user.User
	target         *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	users := newFakeUserRepo()
	userService := user.NewService(users)
	sessionService := authDomain.NewSessionService(cache.NewMemoryCacheService())
	authService := authDomain.NewAuthService(userService, sessionService)
	service := impersonation.NewService(sessionService, userService, &fakeRecordRepo{})

	env := &testEnv{
		engine:         gin.New(),
		sessionService: sessionService,
		service:        service,
	}
	env.admin = &user.User{PublicID: "user_root", Username: "root", Role: user.RoleSuperAdmin, Enabled: true}
	require.NoError(t, users.Create(ctx, env.admin))
	env.target = &user.User{PublicID: "user_alice", Username: "alice", Role: user.RoleMember, Enabled: true}
	require.NoError(t, users.Create(ctx, env.target))

	NewImpersonationRoute(authService, service).RegisterRouter(env.engine.Group("/v1"))
	return env
}

func (env *testEnv) request(t *testing.T, method, path, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: authDomain.SessionCookieName, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func TestStatusRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodGet, "/v1/impersonation/status", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusReportsOverlay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessionID, err := env.sessionService.Create(ctx, env.admin.PublicID)
	require.NoError(t, err)

	rec := env.request(t, http.MethodGet, "/v1/impersonation/status", sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result impersonation.State `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Result.Active)

	_, err = env.service.Start(ctx, sessionID, env.admin, env.target.ID)
	require.NoError(t, err)

	rec = env.request(t, http.MethodGet, "/v1/impersonation/status", sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Result.Active)
	assert.Equal(t, "alice", resp.Result.ImpersonatedUsername)
}

func TestEndWithoutImpersonationConflicts(t *testing.T) {
	env := newTestEnv(t)
	sessionID, err := env.sessionService.Create(context.Background(), env.admin.PublicID)
	require.NoError(t, err)

	rec := env.request(t, http.MethodPost, "/v1/impersonation/end", sessionID)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEndRestoresAndRedirects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessionID, err := env.sessionService.Create(ctx, env.admin.PublicID)
	require.NoError(t, err)
	_, err = env.service.Start(ctx, sessionID, env.admin, env.target.ID)
	require.NoError(t, err)

	// While impersonating the session is bound to the target, yet End still
	// works from that same session.
	data, err := env.sessionService.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Equal(t, env.target.PublicID, data.UserPublicID)

	rec := env.request(t, http.MethodPost, "/v1/impersonation/end", sessionID)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result EndResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, impersonation.AdminHomePath, resp.Result.RedirectURL)
	assert.Equal(t, "root", resp.Result.OriginalUsername)

	data, err = env.sessionService.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, env.admin.PublicID, data.UserPublicID)
}
