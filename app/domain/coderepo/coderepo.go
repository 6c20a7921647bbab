package coderepo

import (
	"context"
	"time"

	"github.com/devportal-io/portal-api/app/domain/query"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Repository is a code repository registered in the portal.
type Repository struct {
	ID          uint
	PublicID    string
	Name        string
	Description string
	OwnerID     uint
	ProjectID   *uint
	Visibility  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RepositoryFilter struct {
	PublicID  *string
	OwnerID   *uint
	ProjectID *uint
}

type RepositoryRepository interface {
	Create(ctx context.Context, r *Repository) error
	Update(ctx context.Context, r *Repository) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Repository, error)
	FindByPublicID(ctx context.Context, publicID string) (*Repository, error)
	FindByFilter(ctx context.Context, filter RepositoryFilter, pagination *query.Pagination) ([]*Repository, error)
	Count(ctx context.Context, filter RepositoryFilter) (int64, error)
}
