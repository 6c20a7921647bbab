package invitations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/coderepo"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/project"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/app/utils/functional"
)

const InvitationParamToken = "token"

// PendingInvitationsPath is where the browser lands when no better target
// exists after responding to an invitation.
const PendingInvitationsPath = "/invitations"

type InvitationsRoute struct {
	authService       *authDomain.AuthService
	invitationService *invitation.InvitationService
	projectService    *project.ProjectService
	repoService       *coderepo.RepositoryService
}

func NewInvitationsRoute(
	authService *authDomain.AuthService,
	invitationService *invitation.InvitationService,
	projectService *project.ProjectService,
	repoService *coderepo.RepositoryService,
) *InvitationsRoute {
	return &InvitationsRoute{
		authService,
		invitationService,
		projectService,
		repoService,
	}
}

type InvitationResponse struct {
	Token       string     `json:"token"`
	TargetKind  string     `json:"target_kind"`
	TargetID    uint       `json:"target_id"`
	Permission  string     `json:"permission"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// RespondResponse answers an accept or reject. The redirect target lets the
// client navigate away from the confirmation URL, so a page reload re-renders
// the target page instead of re-submitting the token.
type RespondResponse struct {
	Invitation  InvitationResponse `json:"invitation"`
	RedirectURL string             `json:"redirect_url"`
}

func newInvitationResponse(i *invitation.Invitation) InvitationResponse {
	return InvitationResponse{
		Token:       i.Token,
		TargetKind:  string(i.TargetKind),
		TargetID:    i.TargetID,
		Permission:  string(i.Permission),
		State:       string(i.State),
		CreatedAt:   i.CreatedAt,
		ExpiresAt:   i.ExpiresAt,
		RespondedAt: i.RespondedAt,
	}
}

func (invitationsRoute *InvitationsRoute) RegisterRouter(router gin.IRouter) {
	invitationsRouter := router.Group("/invitations",
		invitationsRoute.authService.AppUserAuthMiddleware(),
		invitationsRoute.authService.RegisteredUserMiddleware(),
	)
	invitationsRouter.GET("", invitationsRoute.ListPending)
	invitationsRouter.GET("/status", invitationsRoute.Status)
	invitationsRouter.POST("/:"+InvitationParamToken+"/accept", invitationsRoute.Accept)
	invitationsRouter.POST("/:"+InvitationParamToken+"/reject", invitationsRoute.Reject)
}

func (api *InvitationsRoute) ListPending(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, ok := authDomain.GetUserFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "5cb1a7df-9e64-4f60-b7a8-c1d2e03f9a41",
		})
		return
	}
	entities, err := api.invitationService.ListPending(ctx, userEntity.ID)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "e90ad04f-2c3b-45d1-9fbe-68a2c4d7e1b0",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[InvitationResponse]{
		Object: "list",
		Data: functional.Map(entities, func(item *invitation.Invitation) InvitationResponse {
			return newInvitationResponse(item)
		}),
	})
}

// Status reports the most recent invitation addressed to the caller for the
// target named in the query string.
func (api *InvitationsRoute) Status(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, ok := authDomain.GetUserFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "b1f0a9c3-7d2e-4c85-a1f4-06e8d5b2c793",
		})
		return
	}
	kind := membership.TargetKind(reqCtx.Query("kind"))
	targetPublicID := reqCtx.Query("target")
	targetID, ok := api.resolveTarget(reqCtx, kind, targetPublicID)
	if !ok {
		return
	}
	entity, err := api.invitationService.StatusOf(ctx, userEntity.ID, kind, targetID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
				Code: "9d3f5a1e-4b87-4c20-8e6f-a5d0c2b7e914",
			})
			return
		}
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "f2c8e0b4-6a1d-49f3-b7c5-d90e3a4f8162",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[InvitationResponse]{
		Status: responses.ResponseCodeOk,
		Result: newInvitationResponse(entity),
	})
}

func (api *InvitationsRoute) Accept(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	token, ok := api.authorizeInvitee(reqCtx)
	if !ok {
		return
	}
	entity, err := api.invitationService.Accept(ctx, token)
	if err != nil {
		abortWithLifecycleError(reqCtx, err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[RespondResponse]{
		Status: responses.ResponseCodeOk,
		Result: RespondResponse{
			Invitation:  newInvitationResponse(entity),
			RedirectURL: api.targetPath(ctx, entity),
		},
	})
}

func (api *InvitationsRoute) Reject(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	token, ok := api.authorizeInvitee(reqCtx)
	if !ok {
		return
	}
	entity, err := api.invitationService.Reject(ctx, token)
	if err != nil {
		abortWithLifecycleError(reqCtx, err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[RespondResponse]{
		Status: responses.ResponseCodeOk,
		Result: RespondResponse{
			Invitation:  newInvitationResponse(entity),
			RedirectURL: PendingInvitationsPath,
		},
	})
}

// authorizeInvitee checks the invitation addressed by the token param is
// addressed to the authenticated caller before any transition is attempted.
func (api *InvitationsRoute) authorizeInvitee(reqCtx *gin.Context) (string, bool) {
	ctx := reqCtx.Request.Context()
	token := reqCtx.Param(InvitationParamToken)
	userEntity, ok := authDomain.GetUserFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "3a7e1c9f-5d40-4b82-96ce-f14d0a2b8e67",
		})
		return "", false
	}
	entity, err := api.invitationService.FindByToken(ctx, token)
	if err != nil {
		abortWithLifecycleError(reqCtx, err)
		return "", false
	}
	if entity.InvitedUserID != userEntity.ID {
		// Same answer as an unknown token, so a non-invitee cannot tell
		// whether the token exists.
		abortWithLifecycleError(reqCtx, common.ErrInvalidToken)
		return "", false
	}
	return token, true
}

// targetPath resolves where the browser lands after an accept: the target's
// own page when it still resolves, the pending list otherwise.
func (api *InvitationsRoute) targetPath(ctx context.Context, entity *invitation.Invitation) string {
	switch entity.TargetKind {
	case membership.TargetKindProject:
		proj, err := api.projectService.FindProjectByID(ctx, entity.TargetID)
		if err == nil && proj != nil {
			return "/projects/" + proj.PublicID
		}
	case membership.TargetKindRepository:
		repoEntity, err := api.repoService.FindRepositoryByID(ctx, entity.TargetID)
		if err == nil && repoEntity != nil {
			return "/repositories/" + repoEntity.PublicID
		}
	}
	return PendingInvitationsPath
}

func (api *InvitationsRoute) resolveTarget(reqCtx *gin.Context, kind membership.TargetKind, publicID string) (uint, bool) {
	ctx := reqCtx.Request.Context()
	switch kind {
	case membership.TargetKindProject:
		proj, err := api.projectService.FindProjectByPublicID(ctx, publicID)
		if err == nil && proj != nil {
			return proj.ID, true
		}
	case membership.TargetKindRepository:
		repoEntity, err := api.repoService.FindRepositoryByPublicID(ctx, publicID)
		if err == nil && repoEntity != nil {
			return repoEntity.ID, true
		}
	}
	reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
		Code: "d4a0f8b6-2e95-4c17-a3bd-50c7e1f9d283",
	})
	return 0, false
}

func abortWithLifecycleError(reqCtx *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidToken):
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "6e2c8a4d-1f79-4b35-90ae-c7d5f0b3e816",
		})
	case errors.Is(err, common.ErrInvitationExpired):
		reqCtx.AbortWithStatusJSON(http.StatusGone, responses.ErrorResponse{
			Code: "0b7f3d9a-6c25-48e1-b5f0-82a4c9d1e637",
		})
	case errors.Is(err, common.ErrAlreadyProcessed):
		reqCtx.AbortWithStatusJSON(http.StatusConflict, responses.ErrorResponse{
			Code: "74d1e6b3-0a98-4f52-8c2e-b5f7a3d0c941",
		})
	default:
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "28f5c0d7-9b41-4e63-a8d2-1c6e4f7b0a53",
		})
	}
}
