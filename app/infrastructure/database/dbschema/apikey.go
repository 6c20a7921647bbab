package dbschema

import (
	"time"

	"github.com/devportal-io/portal-api/app/domain/apikey"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ApiKey{})
}

type ApiKey struct {
	BaseModel
	PublicID    string `gorm:"size:64;not null;uniqueIndex"`
	KeyHash     string `gorm:"size:128;not null;uniqueIndex"`
	Description string `gorm:"size:256"`
	ApikeyType  string `gorm:"type:varchar(20);not null;index"`
	OwnerUserID uint   `gorm:"not null;index"`
	Enabled     bool   `gorm:"default:true"`
	LastUsedAt  *time.Time
}

func NewSchemaApiKey(k *apikey.ApiKey) *ApiKey {
	return &ApiKey{
		BaseModel: BaseModel{
			ID: k.ID,
		},
		PublicID:    k.PublicID,
		KeyHash:     k.KeyHash,
		Description: k.Description,
		ApikeyType:  k.ApikeyType,
		OwnerUserID: k.OwnerUserID,
		Enabled:     k.Enabled,
		LastUsedAt:  k.LastUsedAt,
	}
}

func (k *ApiKey) EtoD() *apikey.ApiKey {
	return &apikey.ApiKey{
		ID:          k.ID,
		PublicID:    k.PublicID,
		KeyHash:     k.KeyHash,
		Description: k.Description,
		ApikeyType:  k.ApikeyType,
		OwnerUserID: k.OwnerUserID,
		Enabled:     k.Enabled,
		CreatedAt:   k.CreatedAt,
		LastUsedAt:  k.LastUsedAt,
	}
}
