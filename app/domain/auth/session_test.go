package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/infrastructure/cache"
)

func newSessionService() *SessionService {
	return NewSessionService(cache.NewMemoryCacheService())
}

func TestSessionLifecycle(t *testing.T) {
	s := newSessionService()
	ctx := context.Background()

	sessionID, err := s.Create(ctx, "user_abc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sessionID, "sess_"))

	data, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "user_abc", data.UserPublicID)
	assert.Nil(t, data.Impersonation)

	require.NoError(t, s.Destroy(ctx, sessionID))
	data, err = s.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestLoadUnknownSession(t *testing.T) {
	s := newSessionService()
	data, err := s.Load(context.Background(), "sess_missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSwapKeepsSessionAlive(t *testing.T) {
	s := newSessionService()
	ctx := context.Background()

	sessionID, err := s.Create(ctx, "user_admin")
	require.NoError(t, err)
	require.NoError(t, s.Swap(ctx, sessionID, "user_target", nil))

	data, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "user_target", data.UserPublicID)
}

func TestSwapUnknownSessionFails(t *testing.T) {
	s := newSessionService()
	err := s.Swap(context.Background(), "sess_missing", "user_x", nil)
	assert.Error(t, err)
}

func TestSwapRoundTrip(t *testing.T) {
	s := newSessionService()
	ctx := context.Background()

	sessionID, err := s.Create(ctx, "user_admin")
	require.NoError(t, err)

	st, err := s.State(ctx, sessionID)
	require.NoError(t, err)
	assert.Nil(t, st)

	require.NoError(t, s.Swap(ctx, sessionID, "user_alice", &impersonation.State{
		Active:               true,
		OriginalUsername:     "root",
		ImpersonatedUserID:   42,
		ImpersonatedUsername: "alice",
	}))

	// One write carries both halves: the new binding and the overlay.
	data, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "user_alice", data.UserPublicID)
	require.NotNil(t, data.Impersonation)
	assert.True(t, data.Impersonation.Active)
	assert.Equal(t, "root", data.Impersonation.OriginalUsername)
	assert.Equal(t, uint(42), data.Impersonation.ImpersonatedUserID)

	require.NoError(t, s.Swap(ctx, sessionID, "user_admin", nil))
	data, err = s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "user_admin", data.UserPublicID)
	assert.Nil(t, data.Impersonation)
}
