package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devportal-io/portal-api/app/domain/query"
	domain "github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) domain.UserRepository {
	return &UserGormRepository{
		db: db,
	}
}

func (r *UserGormRepository) Create(ctx context.Context, u *domain.User) error {
	model := dbschema.NewSchemaUser(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	return nil
}

func (r *UserGormRepository) Update(ctx context.Context, u *domain.User) error {
	model := dbschema.NewSchemaUser(u)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *UserGormRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var model dbschema.User
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (r *UserGormRepository) FindByFilter(ctx context.Context, filter domain.UserFilter, pagination *query.Pagination) ([]*domain.User, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.User{}), filter)
	q = applyPagination(q, pagination)
	var models []*dbschema.User
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return functional.Map(models, func(m *dbschema.User) *domain.User {
		return m.EtoD()
	}), nil
}

func (r *UserGormRepository) Count(ctx context.Context, filter domain.UserFilter) (int64, error) {
	var count int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.User{}), filter)
	err := q.Count(&count).Error
	return count, err
}

func (r *UserGormRepository) applyFilter(q *gorm.DB, filter domain.UserFilter) *gorm.DB {
	if filter.PublicID != nil {
		q = q.Where("public_id = ?", *filter.PublicID)
	}
	if filter.Username != nil {
		q = q.Where("username = ?", *filter.Username)
	}
	if filter.Email != nil {
		q = q.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.Enabled != nil {
		q = q.Where("enabled = ?", *filter.Enabled)
	}
	return q
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
