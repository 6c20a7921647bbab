package domain

import (
	"github.com/google/wire"

	"github.com/devportal-io/portal-api/app/domain/apikey"
	"github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/domain/cron"
	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/project"
	"github.com/devportal-io/portal-api/app/domain/user"
)

var ServiceProvider = wire.NewSet(
	auth.NewAuthService,
	auth.NewSessionService,
	wire.Bind(new(impersonation.SessionStore), new(*auth.SessionService)),
	user.NewService,
	project.NewService,
	coderepo.NewService,
	membership.NewService,
	invitation.NewService,
	impersonation.NewService,
	apikey.NewService,
	cron.NewService,
)
