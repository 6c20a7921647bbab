package membershiprepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type MembershipGormRepository struct {
	db *gorm.DB
}

func NewMembershipGormRepository(db *gorm.DB) membership.MembershipRepository {
	return &MembershipGormRepository{
		db: db,
	}
}

// Upsert relies on the unique index over (user_id, target_kind, target_id).
// Re-accepting an invitation to the same target updates the permission in
// place instead of stacking rows.
func (repo *MembershipGormRepository) Upsert(ctx context.Context, m *membership.Membership) error {
	model := dbschema.NewSchemaMembership(m)
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_kind"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "joined_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	m.ID = model.ID
	return nil
}

func (repo *MembershipGormRepository) Find(ctx context.Context, userID uint, kind membership.TargetKind, targetID uint) (*membership.Membership, error) {
	var model dbschema.Membership
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, string(kind), targetID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *MembershipGormRepository) FindAllForUser(ctx context.Context, userID uint) ([]*membership.Membership, error) {
	var models []*dbschema.Membership
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.Membership) *membership.Membership {
		return item.EtoD()
	}), nil
}

func (repo *MembershipGormRepository) FindAllForTarget(ctx context.Context, kind membership.TargetKind, targetID uint) ([]*membership.Membership, error) {
	var models []*dbschema.Membership
	err := repo.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", string(kind), targetID).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.Membership) *membership.Membership {
		return item.EtoD()
	}), nil
}

func (repo *MembershipGormRepository) Delete(ctx context.Context, userID uint, kind membership.TargetKind, targetID uint) error {
	return repo.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, string(kind), targetID).
		Delete(&dbschema.Membership{}).Error
}
