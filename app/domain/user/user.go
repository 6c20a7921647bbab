package user

import (
	"context"
	"time"

	"github.com/devportal-io/portal-api/app/domain/query"
)

type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uint
	PublicID     string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserFilter struct {
	PublicID *string
	Username *string
	Email    *string
	Role     *string
	Enabled  *bool
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByFilter(ctx context.Context, filter UserFilter, pagination *query.Pagination) ([]*User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
}
