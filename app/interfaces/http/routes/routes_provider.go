package routes

import (
	"github.com/google/wire"

	v1 "github.com/devportal-io/portal-api/app/interfaces/http/routes/v1"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/admin"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/auth"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/impersonationroute"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/invitations"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/projects"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/repositories"
)

var RouteProvider = wire.NewSet(
	auth.NewAuthRoute,
	invitations.NewInvitationsRoute,
	projects.NewProjectsRoute,
	repositories.NewRepositoriesRoute,
	impersonationroute.NewImpersonationRoute,
	admin.NewAdminRoute,
	v1.NewV1Route,
)
