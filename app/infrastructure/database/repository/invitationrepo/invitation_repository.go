package invitationrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/infrastructure/database/dbschema"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

type InvitationGormRepository struct {
	db *gorm.DB
}

func NewInvitationGormRepository(db *gorm.DB) invitation.InvitationRepository {
	return &InvitationGormRepository{
		db: db,
	}
}

func (repo *InvitationGormRepository) applyFilter(q *gorm.DB, filter invitation.InvitationsFilter) *gorm.DB {
	if filter.InvitedUserID != nil {
		q = q.Where("invited_user_id = ?", *filter.InvitedUserID)
	}
	if filter.TargetKind != nil {
		q = q.Where("target_kind = ?", string(*filter.TargetKind))
	}
	if filter.TargetID != nil {
		q = q.Where("target_id = ?", *filter.TargetID)
	}
	if len(filter.States) > 0 {
		states := functional.Map(filter.States, func(s invitation.State) string {
			return string(s)
		})
		q = q.Where("state IN ?", states)
	}
	return q
}

func (repo *InvitationGormRepository) Create(ctx context.Context, i *invitation.Invitation) error {
	model := dbschema.NewSchemaInvitation(i)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	i.ID = model.ID
	i.CreatedAt = model.CreatedAt
	return nil
}

func (repo *InvitationGormRepository) FindByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	var model dbschema.Invitation
	err := repo.db.WithContext(ctx).Where("token = ?", token).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *InvitationGormRepository) FindByFilter(ctx context.Context, filter invitation.InvitationsFilter, p *query.Pagination) ([]*invitation.Invitation, error) {
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.Invitation{}), filter)
	q = applyPagination(q, p)
	var models []*dbschema.Invitation
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return functional.Map(models, func(item *dbschema.Invitation) *invitation.Invitation {
		return item.EtoD()
	}), nil
}

func (repo *InvitationGormRepository) Count(ctx context.Context, filter invitation.InvitationsFilter) (int64, error) {
	var count int64
	q := repo.applyFilter(repo.db.WithContext(ctx).Model(&dbschema.Invitation{}), filter)
	err := q.Count(&count).Error
	return count, err
}

// UpdateState transitions the row only when it is still in the from state.
// The WHERE clause carries the expected state so two concurrent responders
// cannot both win; the loser sees zero rows affected.
func (repo *InvitationGormRepository) UpdateState(ctx context.Context, token string, from, to invitation.State, respondedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"state":        string(to),
		"responded_at": respondedAt,
	}
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Invitation{}).
		Where("token = ? AND state = ?", token, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *InvitationGormRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&dbschema.Invitation{}).
		Where("state = ? AND expires_at < ?", string(invitation.StatePending), cutoff).
		Update("state", string(invitation.StateExpired))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
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
