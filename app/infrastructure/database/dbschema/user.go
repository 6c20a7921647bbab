package dbschema

import (
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

type User struct {
	BaseModel
	PublicID     string `gorm:"size:64;not null;uniqueIndex"`
	Username     string `gorm:"size:128;not null;uniqueIndex"`
	Email        string `gorm:"size:256;not null;uniqueIndex"`
	Name         string `gorm:"size:256"`
	PasswordHash string `gorm:"size:256;not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'member';index"`
	Enabled      bool   `gorm:"default:true;index"`
}

func NewSchemaUser(u *user.User) *User {
	return &User{
		BaseModel: BaseModel{
			ID: u.ID,
		},
		PublicID:     u.PublicID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Enabled:      u.Enabled,
	}
}

func (u *User) EtoD() *user.User {
	return &user.User{
		ID:           u.ID,
		PublicID:     u.PublicID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         user.Role(u.Role),
		Enabled:      u.Enabled,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
