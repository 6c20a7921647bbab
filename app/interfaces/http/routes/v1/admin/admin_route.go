package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devportal-io/portal-api/app/domain/apikey"
	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/domain/invitation"
	"github.com/devportal-io/portal-api/app/domain/membership"
	"github.com/devportal-io/portal-api/app/domain/query"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/app/utils/functional"
	"github.com/devportal-io/portal-api/app/utils/ptr"
)

type AdminRoute struct {
	authService          *authDomain.AuthService
	userService          *user.UserService
	impersonationService *impersonation.ImpersonationService
	invitationService    *invitation.InvitationService
	apikeyService        *apikey.ApiKeyService
}

func NewAdminRoute(
	authService *authDomain.AuthService,
	userService *user.UserService,
	impersonationService *impersonation.ImpersonationService,
	invitationService *invitation.InvitationService,
	apikeyService *apikey.ApiKeyService,
) *AdminRoute {
	return &AdminRoute{
		authService,
		userService,
		impersonationService,
		invitationService,
		apikeyService,
	}
}

type StartImpersonationRequest struct {
	UserPublicID string `json:"user_id" binding:"required"`
}

type RecordResponse struct {
	AdminUserID  uint       `json:"admin_user_id"`
	TargetUserID uint       `json:"target_user_id"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

type AdminUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}

type AdminInvitationResponse struct {
	Token      string    `json:"token"`
	TargetKind string    `json:"target_kind"`
	TargetID   uint      `json:"target_id"`
	Permission string    `json:"permission"`
	State      string    `json:"state"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type CreateApiKeyResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (adminRoute *AdminRoute) RegisterRouter(router gin.IRouter) {
	adminRouter := router.Group("/admin",
		adminRoute.authService.SessionAuthMiddleware(),
		adminRoute.authService.RegisteredUserMiddleware(),
		adminRoute.authService.SuperAdminMiddleware(),
	)
	adminRouter.POST("/impersonation", adminRoute.StartImpersonation)
	adminRouter.GET("/impersonation/history", adminRoute.ImpersonationHistory)
	adminRouter.GET("/users", adminRoute.ListUsers)
	adminRouter.GET("/invitations", adminRoute.ListInvitations)
	adminRouter.POST("/apikeys", adminRoute.CreateApiKey)

	// Machine access for portal tooling, gated by admin-typed API keys
	// instead of a browser session.
	serviceRouter := router.Group("/service", adminRoute.apikeyService.AdminApiKeyMiddleware())
	serviceRouter.GET("/invitations", adminRoute.ListInvitations)
	serviceRouter.GET("/users", adminRoute.ListUsers)
}

// StartImpersonation swaps the caller's session onto the target user. The
// audit record is written by the service; failures there never block the
// swap.
func (api *AdminRoute) StartImpersonation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	admin, _ := authDomain.GetUserFromContext(reqCtx)
	sessionID, ok := authDomain.GetSessionIDFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "f81c5d2a-0e96-4b37-a4f8-6d3b0c7e9152",
		})
		return
	}
	var req StartImpersonationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "2c7f9e0b-4d58-4a16-b3c7-80e5d1f6a294",
		})
		return
	}
	target, err := api.userService.FindByPublicID(ctx, req.UserPublicID)
	if err != nil || target == nil {
		reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
			Code: "bd30a6e8-7f12-4c59-94ab-e2d5c0f8a367",
		})
		return
	}
	st, err := api.impersonationService.Start(ctx, sessionID, admin, target.ID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotAuthorized):
			reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Code: "694d2f0c-8a35-4e71-b0d6-c7f3e9a1b548",
			})
		case errors.Is(err, common.ErrAlreadyProcessed):
			reqCtx.AbortWithStatusJSON(http.StatusConflict, responses.ErrorResponse{
				Code: "d05b8c3f-1e67-4a92-85cd-f4a0b6e2d719",
			})
		case errors.Is(err, common.ErrNotFound):
			reqCtx.AbortWithStatusJSON(http.StatusNotFound, responses.ErrorResponse{
				Code: "47a9e1d6-3b80-4f25-90e7-2c5d8f0a6b13",
			})
		default:
			reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code: "e2d60b4a-9c17-4385-a6f2-b0e8d5c3f791",
			})
		}
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[impersonation.State]{
		Status: responses.ResponseCodeOk,
		Result: *st,
	})
}

func (api *AdminRoute) ImpersonationHistory(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	admin, _ := authDomain.GetUserFromContext(reqCtx)
	records, err := api.impersonationService.History(ctx, admin.ID)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "098e5c7d-6f24-4a81-b9e3-d1c0f5a7b246",
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[RecordResponse]{
		Object: "list",
		Data: functional.Map(records, func(item *impersonation.Record) RecordResponse {
			return RecordResponse{
				AdminUserID:  item.AdminUserID,
				TargetUserID: item.TargetUserID,
				StartedAt:    item.StartedAt,
				EndedAt:      item.EndedAt,
			}
		}),
	})
}

func (api *AdminRoute) ListUsers(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	pagination, err := query.GetPaginationFromQuery(reqCtx)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "a1f7c3e9-5d02-4b68-87fa-e6d0b2c4f513",
		})
		return
	}
	limit := 20
	if pagination.Limit != nil {
		limit = *pagination.Limit
	}
	pagination.Limit = ptr.ToInt(limit + 1)
	entities, err := api.userService.FindByFilter(ctx, user.UserFilter{}, pagination)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "3e8b0d5f-7a46-4c92-b1e5-08f2d6a9c374",
		})
		return
	}
	hasMore := len(entities) > limit
	if hasMore {
		entities = entities[:limit]
	}
	var firstID, lastID *string
	if len(entities) > 0 {
		firstID = ptr.ToString(entities[0].PublicID)
		lastID = ptr.ToString(entities[len(entities)-1].PublicID)
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[AdminUserResponse]{
		Object: "list",
		Data: functional.Map(entities, func(item *user.User) AdminUserResponse {
			return AdminUserResponse{
				ID:       item.PublicID,
				Username: item.Username,
				Email:    item.Email,
				Role:     string(item.Role),
				Enabled:  item.Enabled,
			}
		}),
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
	})
}

func (api *AdminRoute) ListInvitations(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	pagination, err := query.GetPaginationFromQuery(reqCtx)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "c4a2e8f0-9b63-4d15-a7c8-5e0f3b6d2941",
		})
		return
	}
	filter := invitation.InvitationsFilter{}
	if kind := reqCtx.Query("kind"); kind != "" {
		k := membership.TargetKind(kind)
		filter.TargetKind = &k
	}
	if state := reqCtx.Query("state"); state != "" {
		filter.States = []invitation.State{invitation.State(state)}
	}
	limit := 20
	if pagination.Limit != nil {
		limit = *pagination.Limit
	}
	pagination.Limit = ptr.ToInt(limit + 1)
	entities, err := api.invitationService.Find(ctx, filter, pagination)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "58d0f6b2-1c79-4e34-b5a9-f7e2c0d8a416",
		})
		return
	}
	hasMore := len(entities) > limit
	if hasMore {
		entities = entities[:limit]
	}
	var firstID, lastID *string
	if len(entities) > 0 {
		firstID = ptr.ToString(entities[0].Token)
		lastID = ptr.ToString(entities[len(entities)-1].Token)
	}
	reqCtx.JSON(http.StatusOK, responses.ListResponse[AdminInvitationResponse]{
		Object: "list",
		Data: functional.Map(entities, func(item *invitation.Invitation) AdminInvitationResponse {
			return AdminInvitationResponse{
				Token:      item.Token,
				TargetKind: string(item.TargetKind),
				TargetID:   item.TargetID,
				Permission: string(item.Permission),
				State:      string(item.State),
				ExpiresAt:  item.ExpiresAt,
			}
		}),
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
	})
}

func (api *AdminRoute) CreateApiKey(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	admin, _ := authDomain.GetUserFromContext(reqCtx)
	plaintext, hash, err := api.apikeyService.GenerateKeyAndHash(ctx, apikey.ApikeyTypeAdmin)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "765c1e9a-0f83-4d27-96bd-a2e4f8c0d651",
		})
		return
	}
	entity, err := api.apikeyService.CreateApiKey(ctx, &apikey.ApiKey{
		KeyHash:     hash,
		ApikeyType:  string(apikey.ApikeyTypeAdmin),
		OwnerUserID: admin.ID,
		Enabled:     true,
	})
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "912f4b8e-6d05-4a73-85c2-e0b9d3f6a428",
		})
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[CreateApiKeyResponse]{
		Status: responses.ResponseCodeOk,
		Result: CreateApiKeyResponse{
			ID:  entity.PublicID,
			Key: plaintext,
		},
	})
}
