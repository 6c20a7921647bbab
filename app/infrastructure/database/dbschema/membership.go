package dbschema

import (
	"time"

	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Membership{})
}

type Membership struct {
	BaseModel
	UserID     uint   `gorm:"not null;uniqueIndex:idx_membership_identity"`
	TargetKind string `gorm:"type:varchar(20);not null;uniqueIndex:idx_membership_identity"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_membership_identity"`
	Permission string `gorm:"type:varchar(20);not null"`
	JoinedAt   time.Time
}

func NewSchemaMembership(m *membership.Membership) *Membership {
	return &Membership{
		BaseModel: BaseModel{
			ID: m.ID,
		},
		UserID:     m.UserID,
		TargetKind: string(m.TargetKind),
		TargetID:   m.TargetID,
		Permission: string(m.Permission),
		JoinedAt:   m.JoinedAt,
	}
}

func (m *Membership) EtoD() *membership.Membership {
	return &membership.Membership{
		ID:         m.ID,
		UserID:     m.UserID,
		TargetKind: membership.TargetKind(m.TargetKind),
		TargetID:   m.TargetID,
		Permission: membership.Permission(m.Permission),
		JoinedAt:   m.JoinedAt,
	}
}
