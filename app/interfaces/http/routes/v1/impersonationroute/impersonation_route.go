package impersonationroute

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/common"
	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
)

// ImpersonationRoute exposes the session-scoped half of impersonation. End
// and Status must work while the session is bound to the impersonated user,
// so they sit behind session auth only, not the superadmin gate.
type ImpersonationRoute struct {
	authService          *authDomain.AuthService
	impersonationService *impersonation.ImpersonationService
}

func NewImpersonationRoute(
	authService *authDomain.AuthService,
	impersonationService *impersonation.ImpersonationService,
) *ImpersonationRoute {
	return &ImpersonationRoute{
		authService,
		impersonationService,
	}
}

type EndResponse struct {
	RedirectURL      string `json:"redirect_url"`
	OriginalUsername string `json:"original_username"`
}

func (impersonationRoute *ImpersonationRoute) RegisterRouter(router gin.IRouter) {
	impersonationRouter := router.Group("/impersonation",
		impersonationRoute.authService.SessionAuthMiddleware(),
	)
	impersonationRouter.GET("/status", impersonationRoute.Status)
	impersonationRouter.POST("/end", impersonationRoute.End)
}

func (api *ImpersonationRoute) Status(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	sessionID, ok := authDomain.GetSessionIDFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "72e0c5a9-3f18-4d64-b7c2-e9a5d0f8b341",
		})
		return
	}
	st := api.impersonationService.Status(ctx, sessionID)
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[impersonation.State]{
		Status: responses.ResponseCodeOk,
		Result: st,
	})
}

func (api *ImpersonationRoute) End(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	sessionID, ok := authDomain.GetSessionIDFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "1b9f4d0c-6e27-4a85-93bf-d5c0e7a2f618",
		})
		return
	}
	result, err := api.impersonationService.End(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotImpersonating):
			reqCtx.AbortWithStatusJSON(http.StatusConflict, responses.ErrorResponse{
				Code: "e64a0c2f-8d51-4b39-a7e0-f3b6d9c1a582",
			})
		case errors.Is(err, common.ErrCannotRestore):
			reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code: "09c7e3b5-2a46-4f81-b4d9-6f0a8e5d2c13",
			})
		default:
			reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code: "53d8a1f0-7b92-4e46-a0c3-b8e5f2d60794",
			})
		}
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[EndResponse]{
		Status: responses.ResponseCodeOk,
		Result: EndResponse{
			RedirectURL:      result.RedirectURL,
			OriginalUsername: result.OriginalUsername,
		},
	})
}
