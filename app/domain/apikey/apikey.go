package apikey

import (
	"context"
	"time"

	"github.com/devportal-io/portal-api/app/domain/query"
)

type ApikeyType string

const (
	ApikeyTypeAdmin   ApikeyType = "admin"
	ApikeyTypeService ApikeyType = "service"
)

type ApiKey struct {
	ID          uint
	PublicID    string
	KeyHash     string
	Description string
	ApikeyType  string
	OwnerUserID uint
	Enabled     bool
	CreatedAt   time.Time
	LastUsedAt  *time.Time
}

type ApiKeyFilter struct {
	PublicID    *string
	ApikeyType  *string
	OwnerUserID *uint
	Enabled     *bool
}

type ApiKeyRepository interface {
	Create(ctx context.Context, k *ApiKey) error
	Update(ctx context.Context, k *ApiKey) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*ApiKey, error)
	FindByKeyHash(ctx context.Context, keyHash string) (*ApiKey, error)
	FindByFilter(ctx context.Context, filter ApiKeyFilter, pagination *query.Pagination) ([]*ApiKey, error)
	Count(ctx context.Context, filter ApiKeyFilter) (int64, error)
}
