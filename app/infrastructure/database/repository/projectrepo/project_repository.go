package projectrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/devportal-io/portal-api/app/domain/project"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type ProjectGormRepository struct {
	db *gorm.DB
}

// NewProjectGormRepository creates a new Project repo instance.
func NewProjectGormRepository(db *gorm.DB) domain.ProjectRepository {
	return &ProjectGormRepository{
		db: db,
	}
}

// applyFilter applies conditions dynamically to the query.
func (repo *ProjectGormRepository) applyFilter(q *gorm.DB, filter domain.ProjectFilter) *gorm.DB {
	if filter.PublicID != nil {
		q = q.Where("public_id = ?", *filter.PublicID)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	return q
}

// Create persists a new project to the database.
func (repo *ProjectGormRepository) Create(ctx context.Context, p *domain.Project) error {
	model := dbschema.NewSchemaProject(p)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	p.ID = model.ID
	return nil
}

// Update modifies an existing project.
func (repo *ProjectGormRepository) Update(ctx context.Context, p *domain.Project) error {
	model := dbschema.NewSchemaProject(p)
	return repo.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// DeleteByID removes a project by its ID.
func (repo *ProjectGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Delete(&dbschema.Project{}, id).Error
}

// FindByID retrieves a project by its primary key.
func (repo *ProjectGormRepository) FindByID(ctx context.Context, id uint) (*domain.Project, error) {
	var model dbschema.Project
	err := repo.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

// FindByPublicID retrieves a project by its public ID.
func (repo *ProjectGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Project, error) {
	var model dbschema.Project
	err := repo.db.WithContext(ctx).Where("public_id = ?", publicID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

// FindByFilter retrieves a list of projects matching filter + pagination.
func (repo *ProjectGormRepository) FindByFilter(ctx context.Context, filter domain.ProjectFilter, p *query.Pagination) ([]*domain.Project, error) {
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.Project{}), filter)
	q = applyPagination(q, p)
	var models []*dbschema.Project
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.Project) *domain.Project {
		return item.EtoD()
	}), nil
}

// Count returns number of projects that match filter.
func (repo *ProjectGormRepository) Count(ctx context.Context, filter domain.ProjectFilter) (int64, error) {
	var count int64
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.Project{}), filter)
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
