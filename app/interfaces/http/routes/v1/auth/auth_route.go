package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/devportal-io/portal-api/app/domain/auth"
	"github.com/devportal-io/portal-api/app/domain/impersonation"
	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
)

type AuthRoute struct {
	authService          *authDomain.AuthService
	userService          *user.UserService
	impersonationService *impersonation.ImpersonationService
}

func NewAuthRoute(
	authService *authDomain.AuthService,
	userService *user.UserService,
	impersonationService *impersonation.ImpersonationService,
) *AuthRoute {
	return &AuthRoute{
		authService,
		userService,
		impersonationService,
	}
}

func (authRoute *AuthRoute) RegisterRouter(router gin.IRouter) {
	authRouter := router.Group("/auth")
	authRouter.POST("/register", authRoute.Register)
	authRouter.POST("/login", authRoute.Login)
	authRouter.POST("/logout", authRoute.authService.SessionAuthMiddleware(), authRoute.Logout)
	authRouter.GET("/me",
		authRoute.authService.SessionAuthMiddleware(),
		authRoute.authService.RegisteredUserMiddleware(),
		authRoute.Me,
	)
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type MeResponse struct {
	User          UserResponse        `json:"user"`
	Impersonation impersonation.State `json:"impersonation"`
}

func newUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.PublicID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
	}
}

func (api *AuthRoute) Register(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	var req RegisterRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "0e6b0d17-43a5-4a29-9c9f-7d2c1f5ce0b7",
		})
		return
	}
	userEntity, err := api.userService.RegisterUser(ctx, &user.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Role:     user.RoleMember,
		Enabled:  true,
	}, req.Password)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusConflict, responses.ErrorResponse{
			Code: "7fb3c9be-8c6f-48a8-90c4-1f6b2a30e8d4",
		})
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[UserResponse]{
		Status: responses.ResponseCodeOk,
		Result: newUserResponse(userEntity),
	})
}

// Login opens a cookie session and also returns a JWT for API clients.
func (api *AuthRoute) Login(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	var req LoginRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code: "84b1d6a1-5a62-4c76-af2e-3d9b6f1c7a90",
		})
		return
	}
	userEntity, err := api.userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "baf3e51f-2a4c-4be6-8a2b-64f1cf0f4f55",
		})
		return
	}

	sessionID, err := api.authService.SessionService().Create(ctx, userEntity.PublicID)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "fd0a1c44-9b4e-4f3c-8f5e-2cf607b1e9aa",
		})
		return
	}
	signed, err := authDomain.CreateJwtSignedString(authDomain.UserClaim{
		Email: userEntity.Email,
		Name:  userEntity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        userEntity.PublicID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(authDomain.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code: "53cf9a6e-7e94-4a0b-a3d5-9cf2e0e2b7cd",
		})
		return
	}

	reqCtx.SetSameSite(http.SameSiteLaxMode)
	reqCtx.SetCookie(authDomain.SessionCookieName, sessionID, int(authDomain.SessionTTL.Seconds()), "/", "", false, true)
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[LoginResponse]{
		Status: responses.ResponseCodeOk,
		Result: LoginResponse{
			User:  newUserResponse(userEntity),
			Token: signed,
		},
	})
}

func (api *AuthRoute) Logout(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	sessionID, ok := authDomain.GetSessionIDFromContext(reqCtx)
	if ok {
		if err := api.authService.SessionService().Destroy(ctx, sessionID); err != nil {
			reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code: "8f5d4a4c-0ab1-4f6e-a8f2-26c1bb1afc0a",
			})
			return
		}
	}
	reqCtx.SetCookie(authDomain.SessionCookieName, "", -1, "/", "", false, true)
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[string]{
		Status: responses.ResponseCodeOk,
		Result: "logged out",
	})
}

// Me reports the identity the session is currently bound to, which during an
// impersonation is the impersonated user, plus the overlay itself.
func (api *AuthRoute) Me(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	userEntity, ok := authDomain.GetUserFromContext(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "a6c2b325-1c7e-4b1a-92ef-0d2c8f1e6b3d",
		})
		return
	}
	var st impersonation.State
	if sessionID, ok := authDomain.GetSessionIDFromContext(reqCtx); ok {
		st = api.impersonationService.Status(ctx, sessionID)
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[MeResponse]{
		Status: responses.ResponseCodeOk,
		Result: MeResponse{
			User:          newUserResponse(userEntity),
			Impersonation: st,
		},
	})
}
