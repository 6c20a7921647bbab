package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/admin"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/auth"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/impersonationroute"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/invitations"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/projects"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes/v1/repositories"
	"github.com/devportal-io/portal-api/config"
)

type V1Route struct {
	authRoute          *auth.AuthRoute
	invitationsRoute   *invitations.InvitationsRoute
	projectsRoute      *projects.ProjectsRoute
	repositoriesRoute  *repositories.RepositoriesRoute
	impersonationRoute *impersonationroute.ImpersonationRoute
	adminRoute         *admin.AdminRoute
}

func NewV1Route(
	authRoute *auth.AuthRoute,
	invitationsRoute *invitations.InvitationsRoute,
	projectsRoute *projects.ProjectsRoute,
	repositoriesRoute *repositories.RepositoriesRoute,
	impersonationRoute *impersonationroute.ImpersonationRoute,
	adminRoute *admin.AdminRoute,
) *V1Route {
	return &V1Route{
		authRoute,
		invitationsRoute,
		projectsRoute,
		repositoriesRoute,
		impersonationRoute,
		adminRoute,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Route.authRoute.RegisterRouter(v1Router)
	v1Route.invitationsRoute.RegisterRouter(v1Router)
	v1Route.projectsRoute.RegisterRouter(v1Router)
	v1Route.repositoriesRoute.RegisterRouter(v1Router)
	v1Route.impersonationRoute.RegisterRouter(v1Router)
	v1Route.adminRoute.RegisterRouter(v1Router)
}

func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}
