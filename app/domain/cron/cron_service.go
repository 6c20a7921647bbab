package cron

import (
	"context"

	"github.com/mileusna/crontab"

	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/utils/logger"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

type CronService struct {
	invitationService *invitation.InvitationService
}

func NewService(invitationService *invitation.InvitationService) *CronService {
	return &CronService{
		invitationService: invitationService,
	}
}

func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) {
	cs.expireInvitations(ctx)

	ctab.AddJob("0 * * * *", func() {
		cs.expireInvitations(ctx)
		environment_variables.EnvironmentVariables.LoadFromEnv()
	})
}

func (cs *CronService) expireInvitations(ctx context.Context) {
	if cs == nil || cs.invitationService == nil {
		return
	}

	if _, err := cs.invitationService.ExpireStale(ctx); err != nil {
		logger.GetLogger().Warnf("cron service: failed to expire stale invitations: %v", err)
	}
}
