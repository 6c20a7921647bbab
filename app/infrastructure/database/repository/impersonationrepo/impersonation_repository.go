package impersonationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type ImpersonationRecordGormRepository struct {
	db *gorm.DB
}

func NewImpersonationRecordGormRepository(db *gorm.DB) impersonation.RecordRepository {
	return &ImpersonationRecordGormRepository{
		db: db,
	}
}

func (repo *ImpersonationRecordGormRepository) Create(ctx context.Context, r *impersonation.Record) error {
	model := dbschema.NewSchemaImpersonationRecord(r)
	if err := repo.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	r.ID = model.ID
	return nil
}

func (repo *ImpersonationRecordGormRepository) FindOpenByTargetUserID(ctx context.Context, targetUserID uint) (*impersonation.Record, error) {
	var model dbschema.ImpersonationRecord
	err := repo.db.WithContext(ctx).
		Where("target_user_id = ? AND ended_at IS NULL", targetUserID).
		Order("id desc").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *ImpersonationRecordGormRepository) FindAllForAdmin(ctx context.Context, adminUserID uint) ([]*impersonation.Record, error) {
	var models []*dbschema.ImpersonationRecord
	err := repo.db.WithContext(ctx).
		Where("admin_user_id = ?", adminUserID).
		Order("id desc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.ImpersonationRecord) *impersonation.Record {
		return item.EtoD()
	}), nil
}

func (repo *ImpersonationRecordGormRepository) Update(ctx context.Context, r *impersonation.Record) error {
	model := dbschema.NewSchemaImpersonationRecord(r)
	return repo.db.WithContext(ctx).Save(model).Error
}
