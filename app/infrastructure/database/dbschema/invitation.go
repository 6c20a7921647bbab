package dbschema

import (
	"time"

	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Invitation{})
}

type Invitation struct {
	BaseModel
	Token         string `gorm:"size:64;not null;uniqueIndex"`
	TargetKind    string `gorm:"type:varchar(20);not null;index:idx_invitation_target"`
	TargetID      uint   `gorm:"not null;index:idx_invitation_target"`
	InvitedUserID uint   `gorm:"not null;index"`
	InvitedBy     User   `gorm:"foreignKey:InvitedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	InvitedByID   uint   `gorm:"not null"`
	Permission    string `gorm:"type:varchar(20);not null"`
	State         string `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt     time.Time
	RespondedAt   *time.Time
}

func NewSchemaInvitation(i *invitation.Invitation) *Invitation {
	return &Invitation{
		BaseModel: BaseModel{
			ID:        i.ID,
			CreatedAt: i.CreatedAt,
		},
		Token:         i.Token,
		TargetKind:    string(i.TargetKind),
		TargetID:      i.TargetID,
		InvitedUserID: i.InvitedUserID,
		InvitedByID:   i.InvitedByID,
		Permission:    string(i.Permission),
		State:         string(i.State),
		ExpiresAt:     i.ExpiresAt,
		RespondedAt:   i.RespondedAt,
	}
}

func (i *Invitation) EtoD() *invitation.Invitation {
	return &invitation.Invitation{
		ID:            i.ID,
		Token:         i.Token,
		TargetKind:    membership.TargetKind(i.TargetKind),
		TargetID:      i.TargetID,
		InvitedUserID: i.InvitedUserID,
		InvitedByID:   i.InvitedByID,
		Permission:    membership.Permission(i.Permission),
		State:         invitation.State(i.State),
		CreatedAt:     i.CreatedAt,
		ExpiresAt:     i.ExpiresAt,
		RespondedAt:   i.RespondedAt,
	}
}
