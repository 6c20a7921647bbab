package impersonation

import (
	"context"
	"time"
)

// State is the impersonation overlay attached to one web session. It is set
// and cleared as a whole, never field by field. OriginalUsername is always
// set while Active is true.
type State struct {
	Active               bool   `json:"active"`
	OriginalUsername     string `json:"original_username"`
	ImpersonatedUserID   uint   `json:"impersonated_user_id"`
	ImpersonatedUsername string `json:"impersonated_username"`
}

// Record is the durable audit row for one impersonation, independent of the
// session overlay. EndedAt stays nil while the impersonation is open.
type Record struct {
	ID           uint
	AdminUserID  uint
	TargetUserID uint
	StartedAt    time.Time
	EndedAt      *time.Time
}

type RecordRepository interface {
	Create(ctx context.Context, r *Record) error
	// FindOpenByTargetUserID returns nil without error when no open record
	// exists for the user.
	FindOpenByTargetUserID(ctx context.Context, targetUserID uint) (*Record, error)
	FindAllForAdmin(ctx context.Context, adminUserID uint) ([]*Record, error)
	Update(ctx context.Context, r *Record) error
}

// SessionStore is the slice of the web-session boundary the manager needs:
// reading the overlay, and swapping the session's authenticated identity
// together with the overlay in one write. The auth session service
// implements it.
type SessionStore interface {
	State(ctx context.Context, sessionID string) (*State, error)
	// Swap rebinds the session to userPublicID and replaces the overlay
	// with st atomically. The session is never observable with a new
	// overlay but the old binding, or vice versa.
	Swap(ctx context.Context, sessionID string, userPublicID string, st *State) error
}
