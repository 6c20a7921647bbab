package codereporepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type CodeRepoGormRepository struct {
	db *gorm.DB
}

func NewCodeRepoGormRepository(db *gorm.DB) domain.RepositoryRepository {
	return &CodeRepoGormRepository{
		db: db,
	}
}

func (repo *CodeRepoGormRepository) applyFilter(q *gorm.DB, filter domain.RepositoryFilter) *gorm.DB {
	if filter.PublicID != nil {
		q = q.Where("public_id = ?", *filter.PublicID)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	return q
}

func (repo *CodeRepoGormRepository) Create(ctx context.Context, r *domain.Repository) error {
	model := dbschema.NewSchemaCodeRepository(r)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	r.ID = model.ID
	return nil
}

func (repo *CodeRepoGormRepository) Update(ctx context.Context, r *domain.Repository) error {
	model := dbschema.NewSchemaCodeRepository(r)
	return repo.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

func (repo *CodeRepoGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Delete(&dbschema.CodeRepository{}, id).Error
}

func (repo *CodeRepoGormRepository) FindByID(ctx context.Context, id uint) (*domain.Repository, error) {
	var model dbschema.CodeRepository
	err := repo.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *CodeRepoGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Repository, error) {
	var model dbschema.CodeRepository
	err := repo.db.WithContext(ctx).Where("public_id = ?", publicID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *CodeRepoGormRepository) FindByFilter(ctx context.Context, filter domain.RepositoryFilter, p *query.Pagination) ([]*domain.Repository, error) {
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.CodeRepository{}), filter)
	q = applyPagination(q, p)
	var models []*dbschema.CodeRepository
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.CodeRepository) *domain.Repository {
		return item.EtoD()
	}), nil
}

func (repo *CodeRepoGormRepository) Count(ctx context.Context, filter domain.RepositoryFilter) (int64, error) {
	var count int64
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.CodeRepository{}), filter)
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
