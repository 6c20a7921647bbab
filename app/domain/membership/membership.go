package membership

import (
	"context"
	"time"
)

// TargetKind discriminates what a membership (or invitation) refers to.
type TargetKind string

const (
	TargetKindProject    TargetKind = "project"
	TargetKindRepository TargetKind = "repository"
)

func (k TargetKind) Valid() bool {
	return k == TargetKindProject || k == TargetKindRepository
}

// Permission is an access level on a project or repository.
type Permission string

const (
	PermissionViewer    Permission = "viewer"
	PermissionCommenter Permission = "commenter"
	PermissionEditor    Permission = "editor"
	PermissionAdmin     Permission = "admin"
)

// ValidForKind reports whether the level exists for the target kind.
// Repositories only know viewer and editor; projects carry the full set.
func (p Permission) ValidForKind(kind TargetKind) bool {
	switch kind {
	case TargetKindRepository:
		return p == PermissionViewer || p == PermissionEditor
	case TargetKindProject:
		switch p {
		case PermissionViewer, PermissionCommenter, PermissionEditor, PermissionAdmin:
			return true
		}
	}
	return false
}

// Membership grants a user a permission level on a project or repository.
// Rows are keyed by (UserID, TargetKind, TargetID).
type Membership struct {
	ID         uint
	UserID     uint
	TargetKind TargetKind
	TargetID   uint
	Permission Permission
	JoinedAt   time.Time
}

type MembershipRepository interface {
	// Upsert creates the row or, when one exists for the composite key,
	// replaces its permission and joinedAt.
	Upsert(ctx context.Context, m *Membership) error
	Find(ctx context.Context, userID uint, kind TargetKind, targetID uint) (*Membership, error)
	FindAllForUser(ctx context.Context, userID uint) ([]*Membership, error)
	FindAllForTarget(ctx context.Context, kind TargetKind, targetID uint) ([]*Membership, error)
	Delete(ctx context.Context, userID uint, kind TargetKind, targetID uint) error
}
