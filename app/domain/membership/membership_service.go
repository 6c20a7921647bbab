package membership

import (
	"context"
)

// MembershipService exposes read access to membership rows. Mutations happen
// through the invitation lifecycle service, which owns the state-machine
// invariants, or through explicit admin paths.
type MembershipService struct {
	repo MembershipRepository
}

func NewService(repo MembershipRepository) *MembershipService {
	return &MembershipService{
		repo: repo,
	}
}

func (s *MembershipService) Find(ctx context.Context, userID uint, kind TargetKind, targetID uint) (*Membership, error) {
	return s.repo.Find(ctx, userID, kind, targetID)
}

func (s *MembershipService) FindAllForUser(ctx context.Context, userID uint) ([]*Membership, error) {
	return s.repo.FindAllForUser(ctx, userID)
}

func (s *MembershipService) FindAllForTarget(ctx context.Context, kind TargetKind, targetID uint) ([]*Membership, error) {
	return s.repo.FindAllForTarget(ctx, kind, targetID)
}
