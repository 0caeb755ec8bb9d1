package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type contextKey string

// UserIDKey is the request context key holding the authenticated user's ID
const UserIDKey contextKey = "user_id"

// TokenVerifier resolves the key used to verify incoming JWTs. It supports a
// static HMAC secret or a remote JWKS endpoint when one is configured.
type TokenVerifier struct {
	secret []byte
	jwks   *keyfunc.JWKS
}

// NewTokenVerifier builds a verifier. When jwksURL is non-empty the JWKS is
// fetched and refreshed in the background; otherwise the HMAC secret is used.
func NewTokenVerifier(secret string, jwksURL string) (*TokenVerifier, error) {
	v := &TokenVerifier{secret: []byte(secret)}
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("WARN: JWKS refresh failed: %v", err)
			},
		})
		if err != nil {
			return nil, err
		}
		v.jwks = jwks
	}
	return v, nil
}

// Keyfunc returns the jwt.Keyfunc for token parsing
func (v *TokenVerifier) Keyfunc() jwt.Keyfunc {
	if v.jwks != nil {
		return v.jwks.Keyfunc
	}
	return func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}
}

// JWTConfig builds the echo-jwt configuration used on protected route groups.
// On success the token subject is parsed as a user ID and stored on the
// request context.
func JWTConfig(verifier *TokenVerifier) echojwt.Config {
	return echojwt.Config{
		KeyFunc: verifier.Keyfunc(),
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}
			sub, ok := claims["sub"].(string)
			if !ok {
				return
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return
			}
			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// GetUserIDFromContext extracts the authenticated user ID from a request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
