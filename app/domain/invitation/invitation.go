package invitation

import (
	"context"
	"time"

	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/query"
)

// State is the lifecycle state of an invitation. Accepted, rejected and
// expired are terminal.
type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
	StateExpired  State = "expired"
)

func (s State) Terminal() bool {
	return s != StatePending
}

// DefaultTTL is how long an invitation stays acceptable.
const DefaultTTL = 7 * 24 * time.Hour

// Invitation is an offer for a user to join a project or repository with a
// given permission level, keyed by an unguessable token.
type Invitation struct {
	ID            uint
	Token         string
	TargetKind    membership.TargetKind
	TargetID      uint
	InvitedUserID uint
	InvitedByID   uint
	Permission    membership.Permission
	State         State
	CreatedAt     time.Time
	ExpiresAt     time.Time
	RespondedAt   *time.Time
}

// Expired reports whether the invitation is past its deadline at t.
func (i *Invitation) Expired(t time.Time) bool {
	return t.After(i.ExpiresAt)
}

type InvitationsFilter struct {
	InvitedUserID *uint
	TargetKind    *membership.TargetKind
	TargetID      *uint
	States        []State
}

type InvitationRepository interface {
	Create(ctx context.Context, i *Invitation) error
	// FindByToken returns nil without error when no row matches.
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindByFilter(ctx context.Context, filter InvitationsFilter, pagination *query.Pagination) ([]*Invitation, error)
	Count(ctx context.Context, filter InvitationsFilter) (int64, error)
	// UpdateState is a compare-and-swap on the state column. It reports
	// whether the row was transitioned, which is false when another caller
	// already moved it out of the from state.
	UpdateState(ctx context.Context, token string, from, to State, respondedAt *time.Time) (bool, error)
	// ExpireOlderThan marks pending invitations whose deadline is before
	// cutoff as expired and returns how many rows changed.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
