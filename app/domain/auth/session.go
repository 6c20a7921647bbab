package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/infrastructure/cache"
	"github.com/devportal-io/portal-api/app/utils/idgen"
)

// SessionTTL bounds how long a web session lives without re-login.
const SessionTTL = 24 * time.Hour

// SessionData is the durable payload of one web session. The identity
// binding is the user public ID; while impersonating it is the impersonated
// user's, and the overlay records how to get back.
type SessionData struct {
	UserPublicID  string               `json:"user_public_id"`
	Impersonation *impersonation.State `json:"impersonation,omitempty"`
}

// SessionService keeps web sessions in the cache service, keyed by an
// unguessable session ID carried in a cookie. It implements
// impersonation.SessionStore.
type SessionService struct {
	cacheService cache.CacheService
}

func NewSessionService(cacheService cache.CacheService) *SessionService {
	return &SessionService{
		cacheService: cacheService,
	}
}

// Create opens a session bound to the given user and returns its ID.
func (s *SessionService) Create(ctx context.Context, userPublicID string) (string, error) {
	sessionID, err := idgen.GenerateSecureID("sess", 32)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, sessionID, &SessionData{UserPublicID: userPublicID}); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Load returns the session payload, or nil when the session is unknown or
// expired.
func (s *SessionService) Load(ctx context.Context, sessionID string) (*SessionData, error) {
	raw, err := s.cacheService.Get(ctx, s.key(sessionID))
	if err != nil {
		if err == cache.ErrCacheMiss {
			return nil, nil
		}
		return nil, err
	}
	var data SessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return &data, nil
}

// Destroy removes the session.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) error {
	return s.cacheService.Delete(ctx, s.key(sessionID))
}

// State reads the impersonation overlay; nil when none is set.
func (s *SessionService) State(ctx context.Context, sessionID string) (*impersonation.State, error) {
	data, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return data.Impersonation, nil
}

// Swap rebinds the authenticated identity and replaces the impersonation
// overlay in a single write, so the binding and the overlay can never
// disagree. A per-session lock serializes concurrent swaps of the same
// session. The transport-level session itself stays valid throughout.
func (s *SessionService) Swap(ctx context.Context, sessionID string, userPublicID string, st *impersonation.State) error {
	return s.cacheService.WithLock(ctx, s.lockKey(sessionID), func() error {
		data, err := s.mustLoad(ctx, sessionID)
		if err != nil {
			return err
		}
		data.UserPublicID = userPublicID
		data.Impersonation = st
		return s.save(ctx, sessionID, data)
	})
}

func (s *SessionService) mustLoad(ctx context.Context, sessionID string) (*SessionData, error) {
	data, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return data, nil
}

func (s *SessionService) save(ctx context.Context, sessionID string, data *SessionData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session payload: %w", err)
	}
	return s.cacheService.Set(ctx, s.key(sessionID), string(raw), SessionTTL)
}

func (s *SessionService) key(sessionID string) string {
	return fmt.Sprintf(cache.SessionKeyPattern, sessionID)
}

func (s *SessionService) lockKey(sessionID string) string {
	return fmt.Sprintf(cache.SessionLockKeyPattern, sessionID)
}
