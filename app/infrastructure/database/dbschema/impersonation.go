package dbschema

import (
	"time"

	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ImpersonationRecord{})
}

type ImpersonationRecord struct {
	BaseModel
	AdminUserID  uint `gorm:"not null;index"`
	TargetUserID uint `gorm:"not null;index"`
	StartedAt    time.Time
	EndedAt      *time.Time `gorm:"index"`
}

func NewSchemaImpersonationRecord(r *impersonation.Record) *ImpersonationRecord {
	return &ImpersonationRecord{
		BaseModel: BaseModel{
			ID: r.ID,
		},
		AdminUserID:  r.AdminUserID,
		TargetUserID: r.TargetUserID,
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
	}
}

func (r *ImpersonationRecord) EtoD() *impersonation.Record {
	return &impersonation.Record{
		ID:           r.ID,
		AdminUserID:  r.AdminUserID,
		TargetUserID: r.TargetUserID,
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
	}
}
