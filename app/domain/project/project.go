package project

import (
	"context"
	"time"

	"github.com/devportal-io/portal-api/app/domain/query"
)

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

type Project struct {
	ID          uint
	PublicID    string
	Name        string
	Description string
	OwnerID     uint
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectFilter struct {
	PublicID *string
	OwnerID  *uint
	Status   *string
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Project, error)
	FindByPublicID(ctx context.Context, publicID string) (*Project, error)
	FindByFilter(ctx context.Context, filter ProjectFilter, pagination *query.Pagination) ([]*Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
}
