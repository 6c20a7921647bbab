package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/interfaces/http/requests"
	"github.com/devportal-io/portal-api/app/interfaces/http/responses"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

type AuthService struct {
	userService    *user.UserService
	sessionService *SessionService
}

func NewAuthService(
	userService *user.UserService,
	sessionService *SessionService,
) *AuthService {
	return &AuthService{
		userService,
		sessionService,
	}
}

func (s *AuthService) SessionService() *SessionService {
	return s.sessionService
}

type UserContextKey string

const (
	UserContextKeyEntity    UserContextKey = "UserContextKeyEntity"
	UserContextKeyID        UserContextKey = "UserContextKeyID"
	UserContextKeySessionID UserContextKey = "UserContextKeySessionID"
)

// SessionAuthMiddleware authenticates via the session cookie. The identity
// it installs is the session's current binding, which during impersonation
// is the impersonated user.
func (s *AuthService) SessionAuthMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		userId, sessionId, ok := s.getUserPublicIDFromSession(reqCtx)
		if !ok {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "4e7a9f93-4c1f-41d1-a2f7-78cfbf1c5a02",
			})
			return
		}
		SetUserIDToContext(reqCtx, userId)
		SetSessionIDToContext(reqCtx, sessionId)
		reqCtx.Next()
	}
}

// AppUserAuthMiddleware accepts either a session cookie or a JWT bearer
// token.
func (s *AuthService) AppUserAuthMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		userId, sessionId, ok := s.getUserPublicIDFromSession(reqCtx)
		if ok {
			SetUserIDToContext(reqCtx, userId)
			SetSessionIDToContext(reqCtx, sessionId)
			reqCtx.Next()
			return
		}
		userId, ok = s.getUserPublicIDFromJWT(reqCtx)
		if ok {
			SetUserIDToContext(reqCtx, userId)
			reqCtx.Next()
			return
		}

		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code: "4026757e-d5a4-4cf7-8914-2c96f011084f",
		})
	}
}

// RegisteredUserMiddleware resolves the context user ID to a user entity.
func (s *AuthService) RegisteredUserMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		ctx := reqCtx.Request.Context()
		userPublicId, ok := GetUserIDFromContext(reqCtx)
		if !ok || userPublicId == "" {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "3296ce86-783b-4c05-9fdb-930d3713024e",
			})
			return
		}
		userEntity, err := s.userService.FindByPublicID(ctx, userPublicId)
		if err != nil {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "6272df83-f538-421b-93ba-c2b6f6d39f39",
			})
			return
		}
		if userEntity == nil || !userEntity.Enabled {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "b1ef40e7-9db9-477d-bb59-f3783585195d",
			})
			return
		}
		reqCtx.Set(string(UserContextKeyEntity), userEntity)
		reqCtx.Next()
	}
}

// SuperAdminMiddleware requires the resolved user to hold the superadmin
// role. Must run after RegisteredUserMiddleware.
func (s *AuthService) SuperAdminMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		userEntity, ok := GetUserFromContext(reqCtx)
		if !ok || userEntity.Role != user.RoleSuperAdmin {
			reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Code: "9a04d3c9-0eac-4f5b-a6df-3b2ffbd3e1aa",
			})
			return
		}
		reqCtx.Next()
	}
}

func (s *AuthService) getUserPublicIDFromSession(reqCtx *gin.Context) (string, string, bool) {
	sessionID, err := reqCtx.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return "", "", false
	}
	data, err := s.sessionService.Load(reqCtx.Request.Context(), sessionID)
	if err != nil || data == nil {
		return "", "", false
	}
	return data.UserPublicID, sessionID, true
}

func (s *AuthService) getUserPublicIDFromJWT(reqCtx *gin.Context) (string, bool) {
	tokenString, ok := requests.GetTokenFromBearer(reqCtx)
	if !ok {
		return "", false
	}
	token, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		return environment_variables.EnvironmentVariables.JWT_SECRET, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(*UserClaim)
	if !ok {
		return "", false
	}
	return claims.ID, true
}

func GetUserFromContext(reqCtx *gin.Context) (*user.User, bool) {
	v, ok := reqCtx.Get(string(UserContextKeyEntity))
	if !ok {
		return nil, false
	}
	return v.(*user.User), true
}

func SetUserToContext(reqCtx *gin.Context, u *user.User) {
	reqCtx.Set(string(UserContextKeyEntity), u)
}

func GetUserIDFromContext(reqCtx *gin.Context) (string, bool) {
	userId, ok := reqCtx.Get(string(UserContextKeyID))
	if !ok {
		return "", false
	}
	v, ok := userId.(string)
	if !ok {
		return "", false
	}
	return v, true
}

func SetUserIDToContext(reqCtx *gin.Context, v string) {
	reqCtx.Set(string(UserContextKeyID), v)
}

func GetSessionIDFromContext(reqCtx *gin.Context) (string, bool) {
	sessionId, ok := reqCtx.Get(string(UserContextKeySessionID))
	if !ok {
		return "", false
	}
	v, ok := sessionId.(string)
	if !ok {
		return "", false
	}
	return v, true
}

func SetSessionIDToContext(reqCtx *gin.Context, v string) {
	reqCtx.Set(string(UserContextKeySessionID), v)
}
