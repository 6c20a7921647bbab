package projects

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/project"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/app/utils/emailservice"
	"github.com/devportal-io/portal-api/app/utils/functional"
	"github.com/devportal-io/portal-api/app/utils/logger"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

const ProjectsParamUserPublicID = "user_public_id"

type ProjectsRoute struct {
	authService       *authDomain.AuthService
	projectService    *project.ProjectService
	invitationService *invitation.InvitationService
	membershipService *membership.MembershipService
	userService       *user.UserService
}

func NewProjectsRoute(
	authService *authDomain.AuthService,
	projectService *project.ProjectService,
	invitationService *invitation.InvitationService,
	membershipService *membership.MembershipService,
	userService *user.UserService,
) *ProjectsRoute {
	return &ProjectsRoute{
		authService,
		projectService,
		invitationService,
		membershipService,
		userService,
	}
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type IssueInvitationRequest struct {
	UserPublicID string `json:"user_id"`
	Email        string `json:"email"`
	Permission   string `json:"permission" binding:"required"`
}

type MemberResponse struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Permission string    `json:"permission"`
	JoinedAt   time.Time `json:"joined_at"`
}

func newProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.PublicID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

func (projectsRoute *ProjectsRoute) RegisterRouter(router gin.IRouter) {
	projectsRouter := router.Group("/projects",
		projectsRoute.authService.AppUserAuthMiddleware(),
		projectsRoute.authService.RegisteredUserMiddleware(),
	)
	projectsRouter.POST("", projectsRoute.CreateProject)
	projectsRouter.GET("", projectsRoute.ListProjects)

	projectRouter := projectsRouter.Group(
		fmt.Sprintf("/:%s", project.ProjectContextKeyPublicID),
		projectsRoute.projectService.ProjectMiddleware(),
	)
	projectRouter.GET("", projectsRoute.RetrieveProject)
	projectRouter.POST("/invitations", projectsRoute.IssueInvitation)
	projectRouter.GET("/members", projectsRoute.ListMembers)
	projectRouter.DELETE(fmt.Sprintf("/members/:%s", ProjectsParamUserPublicID), projectsRoute.RemoveMember)
}

func (api *ProjectsRoute) CreateProject(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, _ := authDomain.GetUserFromContext(reqCtx)
	var req CreateProjectRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "1d8c4f2a-6b90-47e3-a5c1-0f7d2e9b8364",
		})
		return
	}
	created, err := api.projectService.CreateProjectWithPublicID(ctx, &project.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userEntity.ID,
		Status:      string(project.ProjectStatusActive),
	})
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "b3e7a1c5-9d20-4f68-8b4e-c2d6f0a3e517",
		})
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[ProjectResponse]{
		Status: responses.ResponseCodeOk,
		Result: newProjectResponse(created),
	})
}

func (api *ProjectsRoute) ListProjects(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, _ := authDomain.GetUserFromContext(reqCtx)
	entities, err := api.projectService.Find(ctx, project.ProjectFilter{
		OwnerID: &userEntity.ID,
	}, nil)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "4f0b9e6d-2c87-41a5-b3f8-7e1d5a0c2946",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[ProjectResponse]{
		Object: "list",
		Data: functional.Map(entities, func(item *project.Project) ProjectResponse {
			return newProjectResponse(item)
		}),
	})
}

func (api *ProjectsRoute) RetrieveProject(reqCtx *gin.Context) {
	proj, ok := api.projectService.GetProjectFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "90c3d5f7-1e48-4b26-a0d9-6b2f8c4e7a13",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[ProjectResponse]{
		Status: responses.ResponseCodeOk,
		Result: newProjectResponse(proj),
	})
}

// IssueInvitation creates a pending invitation to this project and sends the
// invitee a link. Mail delivery is best effort.
func (api *ProjectsRoute) IssueInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, _ := authDomain.GetUserFromContext(reqCtx)
	proj, ok := api.projectService.GetProjectFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "7a5e2d0c-8f46-4b91-a3c7-d1e0b6f4a829",
		})
		return
	}
	var req IssueInvitationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "e1c7f3a9-0d52-46b8-94e6-2a8d5c0f7b31",
		})
		return
	}
	invitee, ok := api.resolveInvitee(reqCtx, req)
	if !ok {
		return
	}
	entity, err := api.invitationService.Issue(ctx,
		userEntity.ID,
		invitee.ID,
		membership.TargetKindProject,
		proj.ID,
		membership.Permission(req.Permission),
	)
	if err != nil {
		abortWithIssueError(reqCtx, err)
		return
	}

	sendInvitationEmail(invitee, proj.Name, entity.Token)

	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[gin.H]{
		Status: responses.ResponseCodeOk,
		Result: gin.H{
			"token":      entity.Token,
			"state":      string(entity.State),
			"expires_at": entity.ExpiresAt,
		},
	})
}

func (api *ProjectsRoute) ListMembers(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	proj, ok := api.projectService.GetProjectFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "8b4f0d2e-6a93-47c1-b5e8-f7a2d9c0e364",
		})
		return
	}
	members, err := api.membershipService.FindAllForTarget(ctx, membership.TargetKindProject, proj.ID)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "2d9a6c4e-1f70-4b85-a3d2-c8e5f0b7a193",
		})
		return
	}
	data := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		item := MemberResponse{
			Permission: string(m.Permission),
			JoinedAt:   m.JoinedAt,
		}
		if u, err := api.userService.FindByID(ctx, m.UserID); err == nil && u != nil {
			item.UserID = u.PublicID
			item.Username = u.Username
		}
		data = append(data, item)
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[MemberResponse]{
		Object: "list",
		Data:   data,
	})
}

// RemoveMember revokes a membership. The project owner and superadmins may
// remove anyone; members may remove themselves.
func (api *ProjectsRoute) RemoveMember(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	caller, _ := authDomain.GetUserFromContext(reqCtx)
	proj, ok := api.projectService.GetProjectFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "0f6b3a8d-4e29-41c7-95f0-a7d2e8c1b546",
		})
		return
	}
	target, err := api.userService.FindByPublicID(ctx, reqCtx.Param(ProjectsParamUserPublicID))
	if err != nil || target == nil {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "c2e9f5b1-7d04-468a-b3c6-5f8a0d2e7419",
		})
		return
	}
	if caller.ID != proj.OwnerID && caller.Role != user.RoleSuperAdmin && caller.ID != target.ID {
		reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
			Code: "6a1d8f3c-0b75-4e92-a4d8-e2c7b5f0a638",
		})
		return
	}
	if err := api.invitationService.RevokeMembership(ctx, target.ID, membership.TargetKindProject, proj.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
				Code: "d7c0a4e2-9f61-4b38-85ad-0e3f6b2c8157",
			})
			return
		}
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "31f8d6b0-5a24-4c79-b0e3-9d1c7f4a2e85",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[string]{
		Status: responses.ResponseCodeOk,
		Result: "member removed",
	})
}

func (api *ProjectsRoute) resolveInvitee(reqCtx *gin.Context, req IssueInvitationRequest) (*user.User, bool) {
	ctx := reqCtx.Request.Context()
	var invitee *user.User
	var err error
	switch {
	case req.UserPublicID != "":
		invitee, err = api.userService.FindByPublicID(ctx, req.UserPublicID)
	case req.Email != "":
		invitee, err = api.userService.FindByEmail(ctx, req.Email)
	}
	if err != nil || invitee == nil {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "5e0c2a7f-8d14-4b63-92c5-f6a3d0e8b742",
		})
		return nil, false
	}
	return invitee, true
}

func sendInvitationEmail(invitee *user.User, targetName, token string) {
	link := fmt.Sprintf("%s/invitations/%s", environment_variables.EnvironmentVariables.PORTAL_BASE_URL, token)
	body := fmt.Sprintf("You have been invited to %s.\n\nAccept or decline here: %s\n", targetName, link)
	if err := emailservice.SendEmail(invitee.Email, "You have a new invitation", body); err != nil {
		logger.GetLogger().Warnf("failed to send invitation email: %v", err)
	}
}

func abortWithIssueError(reqCtx *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidPermission):
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "a9d4e0f6-3c21-4785-b8e0-17f5c2a6d093",
		})
	case errors.Is(err, common.ErrNotAuthorized):
		reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
			Code: "48e2c7a0-6f95-4d13-a2b7-e0d8f5c31246",
		})
	case errors.Is(err, common.ErrNotFound):
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "f5a1d9c3-2e67-40b4-8cf1-3d0a7e6b2598",
		})
	default:
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "be6f0a2d-7c83-491e-b5d4-a1c9e3f70862",
		})
	}
}
