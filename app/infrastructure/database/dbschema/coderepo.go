package dbschema

import (
	"github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(CodeRepository{})
}

type CodeRepository struct {
	BaseModel
	PublicID    string `gorm:"size:64;not null;uniqueIndex"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"type:text"`
	OwnerID     uint   `gorm:"not null;index"`
	Owner       User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	ProjectID   *uint  `gorm:"index"`
	Visibility  string `gorm:"type:varchar(20);not null;default:'private'"`
}

func NewSchemaCodeRepository(r *coderepo.Repository) *CodeRepository {
	return &CodeRepository{
		BaseModel: BaseModel{
			ID: r.ID,
		},
		PublicID:    r.PublicID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		ProjectID:   r.ProjectID,
		Visibility:  r.Visibility,
	}
}

func (r *CodeRepository) EtoD() *coderepo.Repository {
	return &coderepo.Repository{
		ID:          r.ID,
		PublicID:    r.PublicID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		ProjectID:   r.ProjectID,
		Visibility:  r.Visibility,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
