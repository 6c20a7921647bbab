package impersonation

import (
	"context"
	"time"

	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/utils/logger"
)

// AdminHomePath is where an administrator lands after impersonation ends.
const AdminHomePath = "/admin/users"

// EndResult reports a successful End: who the session was rebound to and
// where the browser should go next.
type EndResult struct {
	RedirectURL      string
	OriginalUsername string
}

// ImpersonationService swaps the identity bound to a web session to another
// user and restores it. The overlay lives on the session; the durable record
// is bookkeeping only and never blocks the restore path.
type ImpersonationService struct {
	sessions    SessionStore
	userService *user.UserService
	records     RecordRepository
}

func NewService(sessions SessionStore, userService *user.UserService, records RecordRepository) *ImpersonationService {
	return &ImpersonationService{
		sessions:    sessions,
		userService: userService,
		records:     records,
	}
}

// Start begins impersonating target on the given session. Only superadmins
// may impersonate, and a session cannot stack impersonations.
func (s *ImpersonationService) Start(ctx context.Context, sessionID string, admin *user.User, targetUserID uint) (*State, error) {
	if admin == nil || admin.Role != user.RoleSuperAdmin {
		return nil, common.ErrNotAuthorized
	}
	current, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Active {
		return nil, common.ErrAlreadyProcessed
	}

	target, err := s.userService.FindByID(ctx, targetUserID)
	if err != nil || target == nil {
		return nil, common.ErrNotFound
	}

	st := &State{
		Active:               true,
		OriginalUsername:     admin.Username,
		ImpersonatedUserID:   target.ID,
		ImpersonatedUsername: target.Username,
	}
	if err := s.sessions.Swap(ctx, sessionID, target.PublicID, st); err != nil {
		return nil, err
	}

	if err := s.records.Create(ctx, &Record{
		AdminUserID:  admin.ID,
		TargetUserID: target.ID,
		StartedAt:    time.Now(),
	}); err != nil {
		// The audit row is best effort; the session swap already happened.
		logger.GetLogger().Warnf("failed to persist impersonation record: %v", err)
	}
	return st, nil
}

// End restores the administrator's identity on the session. The original
// identity and role set are re-read from the identity store, so role changes
// made during the impersonation take effect immediately. Finalizing the
// durable record is best effort: restoring the admin's access takes priority
// over bookkeeping.
func (s *ImpersonationService) End(ctx context.Context, sessionID string) (*EndResult, error) {
	st, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st == nil || !st.Active {
		return nil, common.ErrNotImpersonating
	}
	if st.OriginalUsername == "" {
		return nil, common.ErrCannotRestore
	}

	admin, err := s.userService.FindByUsername(ctx, st.OriginalUsername)
	if err != nil || admin == nil {
		return nil, common.ErrCannotRestore
	}

	if err := s.sessions.Swap(ctx, sessionID, admin.PublicID, nil); err != nil {
		return nil, err
	}

	s.finalizeRecord(ctx, st.ImpersonatedUserID)

	return &EndResult{
		RedirectURL:      AdminHomePath,
		OriginalUsername: admin.Username,
	}, nil
}

// Status is a pure read of the session overlay. It never fails; a session
// without an overlay reports the zero state.
func (s *ImpersonationService) Status(ctx context.Context, sessionID string) State {
	st, err := s.sessions.State(ctx, sessionID)
	if err != nil || st == nil {
		return State{}
	}
	return *st
}

// History lists the durable impersonation records opened by an admin.
func (s *ImpersonationService) History(ctx context.Context, adminUserID uint) ([]*Record, error) {
	return s.records.FindAllForAdmin(ctx, adminUserID)
}

func (s *ImpersonationService) finalizeRecord(ctx context.Context, targetUserID uint) {
	record, err := s.records.FindOpenByTargetUserID(ctx, targetUserID)
	if err != nil || record == nil {
		if err != nil {
			logger.GetLogger().Warnf("failed to load impersonation record: %v", err)
		}
		return
	}
	now := time.Now()
	record.EndedAt = &now
	if err := s.records.Update(ctx, record); err != nil {
		logger.GetLogger().Warnf("failed to finalize impersonation record: %v", err)
	}
}
