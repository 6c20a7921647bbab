package apikeyrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devportal-io/portal-api/app/domain/apikey"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type ApiKeyGormRepository struct {
	db *gorm.DB
}

func NewApiKeyGormRepository(db *gorm.DB) apikey.ApiKeyRepository {
	return &ApiKeyGormRepository{
		db: db,
	}
}

func (repo *ApiKeyGormRepository) applyFilter(q *gorm.DB, filter apikey.ApiKeyFilter) *gorm.DB {
	if filter.PublicID != nil {
		q = q.Where("public_id = ?", *filter.PublicID)
	}
	if filter.ApikeyType != nil {
		q = q.Where("apikey_type = ?", *filter.ApikeyType)
	}
	if filter.OwnerUserID != nil {
		q = q.Where("owner_user_id = ?", *filter.OwnerUserID)
	}
	if filter.Enabled != nil {
		q = q.Where("enabled = ?", *filter.Enabled)
	}
	return q
}

func (repo *ApiKeyGormRepository) Create(ctx context.Context, k *apikey.ApiKey) error {
	model := dbschema.NewSchemaApiKey(k)
	if err := repo.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	k.ID = model.ID
	return nil
}

func (repo *ApiKeyGormRepository) Update(ctx context.Context, k *apikey.ApiKey) error {
	model := dbschema.NewSchemaApiKey(k)
	return repo.db.WithContext(ctx).Save(model).Error
}

func (repo *ApiKeyGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Delete(&dbschema.ApiKey{}, id).Error
}

func (repo *ApiKeyGormRepository) FindByID(ctx context.Context, id uint) (*apikey.ApiKey, error) {
	var model dbschema.ApiKey
	err := repo.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *ApiKeyGormRepository) FindByKeyHash(ctx context.Context, keyHash string) (*apikey.ApiKey, error) {
	var model dbschema.ApiKey
	err := repo.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *ApiKeyGormRepository) FindByFilter(ctx context.Context, filter apikey.ApiKeyFilter, p *query.Pagination) ([]*apikey.ApiKey, error) {
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.ApiKey{}), filter)
	q = applyPagination(q, p)
	var models []*dbschema.ApiKey
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.ApiKey) *apikey.ApiKey {
		return item.EtoD()
	}), nil
}

func (repo *ApiKeyGormRepository) Count(ctx context.Context, filter apikey.ApiKeyFilter) (int64, error) {
	var count int64
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.ApiKey{}), filter)
	err := q.Count(&count).Error
	return count, err
}

func applyPagination(q *gorm.DB, p *query.Pagination) *gorm.DB {
	if p == nil {
		return q
	}
	if p.Order == "desc" {
		q = q.Order("id desc")
		if p.After != nil {
			q = q.Where("id < ?", *p.After)
		}
	} else {
		q = q.Order("id asc")
		if p.After != nil {
			q = q.Where("id > ?", *p.After)
		}
	}
	if p.Limit != nil {
		q = q.Limit(*p.Limit)
	}
	return q
}
