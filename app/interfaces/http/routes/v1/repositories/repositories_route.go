package repositories

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/app/utils/emailservice"
	"github.com/devportal-io/portal-api/app/utils/functional"
	"github.com/devportal-io/portal-api/app/utils/logger"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

const RepositoriesParamUserPublicID = "user_public_id"

type RepositoriesRoute struct {
	authService       *authDomain.AuthService
	repoService       *coderepo.RepositoryService
	invitationService *invitation.InvitationService
	membershipService *membership.MembershipService
	userService       *user.UserService
}

func NewRepositoriesRoute(
	authService *authDomain.AuthService,
	repoService *coderepo.RepositoryService,
	invitationService *invitation.InvitationService,
	membershipService *membership.MembershipService,
	userService *user.UserService,
) *RepositoriesRoute {
	return &RepositoriesRoute{
		authService,
		repoService,
		invitationService,
		membershipService,
		userService,
	}
}

type RepositoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateRepositoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
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

func newRepositoryResponse(r *coderepo.Repository) RepositoryResponse {
	return RepositoryResponse{
		ID:          r.PublicID,
		Name:        r.Name,
		Description: r.Description,
		Visibility:  r.Visibility,
		CreatedAt:   r.CreatedAt,
	}
}

func (repositoriesRoute *RepositoriesRoute) RegisterRouter(router gin.IRouter) {
	repositoriesRouter := router.Group("/repositories",
		repositoriesRoute.authService.AppUserAuthMiddleware(),
		repositoriesRoute.authService.RegisteredUserMiddleware(),
	)
	repositoriesRouter.POST("", repositoriesRoute.CreateRepository)
	repositoriesRouter.GET("", repositoriesRoute.ListRepositories)

	repositoryRouter := repositoriesRouter.Group(
		fmt.Sprintf("/:%s", coderepo.RepositoryContextKeyPublicID),
		repositoriesRoute.repoService.RepositoryMiddleware(),
	)
	repositoryRouter.GET("", repositoriesRoute.RetrieveRepository)
	repositoryRouter.POST("/invitations", repositoriesRoute.IssueInvitation)
	repositoryRouter.GET("/members", repositoriesRoute.ListMembers)
	repositoryRouter.DELETE(fmt.Sprintf("/members/:%s", RepositoriesParamUserPublicID), repositoriesRoute.RemoveMember)
}

func (api *RepositoriesRoute) CreateRepository(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, _ := authDomain.GetUserFromContext(reqCtx)
	var req CreateRepositoryRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "9c2e5f0b-7a48-4d16-b3e9-d0f6a2c8e571",
		})
		return
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = string(coderepo.VisibilityPrivate)
	}
	created, err := api.repoService.CreateRepositoryWithPublicID(ctx, &coderepo.Repository{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userEntity.ID,
		Visibility:  visibility,
	})
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "3f7d0b9e-1c58-4a26-84f3-b6e2d5a0c719",
		})
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[RepositoryResponse]{
		Status: responses.ResponseCodeOk,
		Result: newRepositoryResponse(created),
	})
}

func (api *RepositoriesRoute) ListRepositories(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, _ := authDomain.GetUserFromContext(reqCtx)
	entities, err := api.repoService.Find(ctx, coderepo.RepositoryFilter{
		OwnerID: &userEntity.ID,
	}, nil)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "ad5c8e1f-6b30-4972-a0e5-4c9f2d7b0168",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[RepositoryResponse]{
		Object: "list",
		Data: functional.Map(entities, func(item *coderepo.Repository) RepositoryResponse {
			return newRepositoryResponse(item)
		}),
	})
}

func (api *RepositoriesRoute) RetrieveRepository(reqCtx *gin.Context) {
	repoEntity, ok := api.repoService.GetRepositoryFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "61b3f8d0-2e97-4c45-b1a8-f0d7c4e2a593",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[RepositoryResponse]{
		Status: responses.ResponseCodeOk,
		Result: newRepositoryResponse(repoEntity),
	})
}

// IssueInvitation creates a pending invitation to this repository. Repository
// grants only know the viewer and editor levels; anything else is rejected
// before a row is written.
func (api *RepositoriesRoute) IssueInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, _ := authDomain.GetUserFromContext(reqCtx)
	repoEntity, ok := api.repoService.GetRepositoryFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "e8a0d6c2-4f19-4b73-95c0-2d7e1f5a8b46",
		})
		return
	}
	var req IssueInvitationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "07d2b9f4-5e61-483a-a6d3-c1f8e0b5a729",
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
		membership.TargetKindRepository,
		repoEntity.ID,
		membership.Permission(req.Permission),
	)
	if err != nil {
		abortWithIssueError(reqCtx, err)
		return
	}

	sendInvitationEmail(invitee, repoEntity.Name, entity.Token)

	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[gin.H]{
		Status: responses.ResponseCodeOk,
		Result: gin.H{
			"token":      entity.Token,
			"state":      string(entity.State),
			"expires_at": entity.ExpiresAt,
		},
	})
}

func (api *RepositoriesRoute) ListMembers(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	repoEntity, ok := api.repoService.GetRepositoryFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "524e9b0a-8d37-4f61-b2c9-e5a0f7d3c816",
		})
		return
	}
	members, err := api.membershipService.FindAllForTarget(ctx, membership.TargetKindRepository, repoEntity.ID)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "c0f7a3e5-1b92-4d48-86f0-3e6d9a2c5b71",
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

func (api *RepositoriesRoute) RemoveMember(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	caller, _ := authDomain.GetUserFromContext(reqCtx)
	repoEntity, ok := api.repoService.GetRepositoryFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "b9e3c0d7-6a25-4f84-91b6-d2f5a8e0c347",
		})
		return
	}
	target, err := api.userService.FindByPublicID(ctx, reqCtx.Param(RepositoriesParamUserPublicID))
	if err != nil || target == nil {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "17a4f2d8-3c60-4e95-b7a1-08c5e6d9f234",
		})
		return
	}
	if caller.ID != repoEntity.OwnerID && caller.Role != user.RoleSuperAdmin && caller.ID != target.ID {
		reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
			Code: "de08b6f1-9a43-4c27-85e9-f3b0d7a2c615",
		})
		return
	}
	if err := api.invitationService.RevokeMembership(ctx, target.ID, membership.TargetKindRepository, repoEntity.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
				Code: "6c2f8a0e-5d71-4b39-a4c6-91e0d3f7b825",
			})
			return
		}
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "f03e6d9b-2a58-4c17-b0f4-7d1a5e8c2936",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[string]{
		Status: responses.ResponseCodeOk,
		Result: "member removed",
	})
}

func (api *RepositoriesRoute) resolveInvitee(reqCtx *gin.Context, req IssueInvitationRequest) (*user.User, bool) {
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
			Code: "4b8d0f6a-7e32-4951-8c5d-a9f1e4b0d273",
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
			Code: "21c6e9f3-0d84-4a57-b2e0-8f5a3d1c7b49",
		})
	case errors.Is(err, common.ErrNotAuthorized):
		reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
			Code: "a3f0d7b5-8e21-4c96-84da-0b6e2f9c5d18",
		})
	case errors.Is(err, common.ErrNotFound):
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "70e5a2c8-1f94-4d63-b8a0-c4d7f3e6b921",
		})
	default:
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "8a1c4e7d-6b05-4f28-93cb-e0f2d5a8b634",
		})
	}
}
