package invitation

import (
	"context"
	"fmt"
	"time"

	"github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/project"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/infrastructure/cache"
	"github.com/devportal-io/portal-api/app/utils/idgen"
	"github.com/devportal-io/portal-api/app/utils/logger"
)

// InvitationService drives the invitation lifecycle for both target kinds
// with a single state machine: pending -> accepted | rejected | expired.
// Accept materializes the membership row; reject and expire never touch it.
type InvitationService struct {
	repo           InvitationRepository
	memberships    membership.MembershipRepository
	projectService *project.ProjectService
	repoService    *coderepo.RepositoryService
	userService    *user.UserService
	cacheService   cache.CacheService
}

func NewService(
	repo InvitationRepository,
	memberships membership.MembershipRepository,
	projectService *project.ProjectService,
	repoService *coderepo.RepositoryService,
	userService *user.UserService,
	cacheService cache.CacheService,
) *InvitationService {
	return &InvitationService{
		repo:           repo,
		memberships:    memberships,
		projectService: projectService,
		repoService:    repoService,
		userService:    userService,
		cacheService:   cacheService,
	}
}

func (s *InvitationService) createToken() (string, error) {
	return idgen.GenerateSecureID("invt", 24)
}

// Issue creates a pending invitation for invitee on the target. A pending
// invitation already covering (invitee, kind, target) is superseded: it is
// marked expired before the new one is written, so at most one pending row
// exists per tuple.
func (s *InvitationService) Issue(ctx context.Context, inviterID, inviteeID uint, kind membership.TargetKind, targetID uint, permission membership.Permission) (*Invitation, error) {
	if !kind.Valid() {
		return nil, common.ErrNotFound
	}
	if !permission.ValidForKind(kind) {
		return nil, common.ErrInvalidPermission
	}

	inviter, err := s.userService.FindByID(ctx, inviterID)
	if err != nil || inviter == nil {
		return nil, common.ErrNotAuthorized
	}
	invitee, err := s.userService.FindByID(ctx, inviteeID)
	if err != nil || invitee == nil {
		return nil, common.ErrNotFound
	}

	ownerID, err := s.targetOwner(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeInviter(ctx, inviter, kind, targetID, ownerID); err != nil {
		return nil, err
	}

	if err := s.supersedePending(ctx, inviteeID, kind, targetID); err != nil {
		return nil, err
	}

	now := time.Now()
	entity := &Invitation{
		TargetKind:    kind,
		TargetID:      targetID,
		InvitedUserID: inviteeID,
		InvitedByID:   inviterID,
		Permission:    permission,
		State:         StatePending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(DefaultTTL),
	}
	token, err := s.createToken()
	if err != nil {
		return nil, err
	}
	entity.Token = token
	if err := s.repo.Create(ctx, entity); err != nil {
		// A token collision is astronomically unlikely; one retry with a
		// fresh draw before surfacing the store failure.
		token, tokenErr := s.createToken()
		if tokenErr != nil {
			return nil, tokenErr
		}
		entity.Token = token
		if err := s.repo.Create(ctx, entity); err != nil {
			return nil, fmt.Errorf("failed to create invitation: %w", err)
		}
	}
	return entity, nil
}

// StatusOf returns the most recent invitation for (userID, kind, targetID).
// The caller is expected to be the already-authenticated invitee; routes
// enforce that before calling in.
func (s *InvitationService) StatusOf(ctx context.Context, userID uint, kind membership.TargetKind, targetID uint) (*Invitation, error) {
	entities, err := s.repo.FindByFilter(ctx, InvitationsFilter{
		InvitedUserID: &userID,
		TargetKind:    &kind,
		TargetID:      &targetID,
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, common.ErrNotFound
	}
	latest := entities[0]
	for _, e := range entities[1:] {
		if e.ID > latest.ID {
			latest = e
		}
	}
	return latest, nil
}

// FindByToken resolves a token to its invitation without touching state.
func (s *InvitationService) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	entity, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, common.ErrInvalidToken
	}
	return entity, nil
}

// ListPending returns the non-terminal invitations addressed to userID,
// ordered by id so repeated calls are stable.
func (s *InvitationService) ListPending(ctx context.Context, userID uint) ([]*Invitation, error) {
	return s.repo.FindByFilter(ctx, InvitationsFilter{
		InvitedUserID: &userID,
		States:        []State{StatePending},
	}, nil)
}

// Find retrieves invitations by filter; used by admin listings.
func (s *InvitationService) Find(ctx context.Context, filter InvitationsFilter, pagination *query.Pagination) ([]*Invitation, error) {
	return s.repo.FindByFilter(ctx, filter, pagination)
}

// Accept transitions a pending invitation to accepted and upserts the
// membership row with the invitation's permission. Exactly one of two
// concurrent Accept/Reject calls on the same token wins; the loser observes
// ErrAlreadyProcessed.
func (s *InvitationService) Accept(ctx context.Context, token string) (*Invitation, error) {
	var accepted *Invitation
	err := s.withTokenLock(ctx, token, func() error {
		entity, err := s.loadPending(ctx, token)
		if err != nil {
			return err
		}
		now := time.Now()
		ok, err := s.repo.UpdateState(ctx, token, StatePending, StateAccepted, &now)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrAlreadyProcessed
		}
		if err := s.memberships.Upsert(ctx, &membership.Membership{
			UserID:     entity.InvitedUserID,
			TargetKind: entity.TargetKind,
			TargetID:   entity.TargetID,
			Permission: entity.Permission,
			JoinedAt:   now,
		}); err != nil {
			return fmt.Errorf("failed to materialize membership: %w", err)
		}
		entity.State = StateAccepted
		entity.RespondedAt = &now
		accepted = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// Reject transitions a pending invitation to rejected. Membership rows are
// never touched, including pre-existing ones.
func (s *InvitationService) Reject(ctx context.Context, token string) (*Invitation, error) {
	var rejected *Invitation
	err := s.withTokenLock(ctx, token, func() error {
		entity, err := s.loadPending(ctx, token)
		if err != nil {
			return err
		}
		now := time.Now()
		ok, err := s.repo.UpdateState(ctx, token, StatePending, StateRejected, &now)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrAlreadyProcessed
		}
		entity.State = StateRejected
		entity.RespondedAt = &now
		rejected = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// RevokeMembership removes a membership row outside the invitation flow: a
// member leaving, or an owner removing one.
func (s *InvitationService) RevokeMembership(ctx context.Context, userID uint, kind membership.TargetKind, targetID uint) error {
	existing, err := s.memberships.Find(ctx, userID, kind, targetID)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.ErrNotFound
	}
	return s.memberships.Delete(ctx, userID, kind, targetID)
}

// ExpireStale sweeps pending invitations past their deadline. Driven by the
// cron service.
func (s *InvitationService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOlderThan(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.GetLogger().WithField("count", n).Info("expired stale invitations")
	}
	return n, nil
}

func (s *InvitationService) withTokenLock(ctx context.Context, token string, fn func() error) error {
	return s.cacheService.WithLock(ctx, fmt.Sprintf(cache.InvitationLockKeyPattern, token), fn)
}

// loadPending resolves the token to a pending invitation, folding a lapsed
// deadline into the expired state on touch.
func (s *InvitationService) loadPending(ctx context.Context, token string) (*Invitation, error) {
	entity, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, common.ErrInvalidToken
	}
	if entity.State != StatePending {
		return nil, common.ErrAlreadyProcessed
	}
	if entity.Expired(time.Now()) {
		if _, err := s.repo.UpdateState(ctx, token, StatePending, StateExpired, nil); err != nil {
			logger.GetLogger().Warnf("failed to mark invitation expired: %v", err)
		}
		return nil, common.ErrInvitationExpired
	}
	return entity, nil
}

func (s *InvitationService) supersedePending(ctx context.Context, inviteeID uint, kind membership.TargetKind, targetID uint) error {
	pending, err := s.repo.FindByFilter(ctx, InvitationsFilter{
		InvitedUserID: &inviteeID,
		TargetKind:    &kind,
		TargetID:      &targetID,
		States:        []State{StatePending},
	}, nil)
	if err != nil {
		return err
	}
	for _, p := range pending {
		if _, err := s.repo.UpdateState(ctx, p.Token, StatePending, StateExpired, nil); err != nil {
			return fmt.Errorf("failed to supersede pending invitation: %w", err)
		}
	}
	return nil
}

func (s *InvitationService) targetOwner(ctx context.Context, kind membership.TargetKind, targetID uint) (uint, error) {
	switch kind {
	case membership.TargetKindProject:
		proj, err := s.projectService.FindProjectByID(ctx, targetID)
		if err != nil || proj == nil {
			return 0, common.ErrNotFound
		}
		return proj.OwnerID, nil
	case membership.TargetKindRepository:
		repoEntity, err := s.repoService.FindRepositoryByID(ctx, targetID)
		if err != nil || repoEntity == nil {
			return 0, common.ErrNotFound
		}
		return repoEntity.OwnerID, nil
	}
	return 0, common.ErrNotFound
}

// authorizeInviter allows the target owner, superadmins, and for projects
// members holding the admin level.
func (s *InvitationService) authorizeInviter(ctx context.Context, inviter *user.User, kind membership.TargetKind, targetID, ownerID uint) error {
	if inviter.Role == user.RoleSuperAdmin {
		return nil
	}
	if inviter.ID == ownerID {
		return nil
	}
	if kind == membership.TargetKindProject {
		m, err := s.memberships.Find(ctx, inviter.ID, kind, targetID)
		if err != nil {
			return err
		}
		if m != nil && m.Permission == membership.PermissionAdmin {
			return nil
		}
	}
	return common.ErrNotAuthorized
}
