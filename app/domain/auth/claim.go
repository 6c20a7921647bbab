package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/devportal-io/portal-api/config/environment_variables"
)

const SessionCookieName = "portal_session"

// UserClaim carries the user's public ID in the registered ID (jti) field.
type UserClaim struct {
	Email string
	Name  string
	jwt.RegisteredClaims
}

func CreateJwtSignedString(u UserClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, u)
	return token.SignedString(environment_variables.EnvironmentVariables.JWT_SECRET)
}
