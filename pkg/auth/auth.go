package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	"github.com/tasklane/tasklane/pkg/domain"
)

const identityContextKey = "tasklane.identity"

// TokenClaims is the JWT payload issued for a signed-in user.
//
// The user id travels in the registered Subject claim.
type TokenClaims struct {
	jwt.RegisteredClaims
	IsAdmin    bool `json:"adm"`
	IsApproved bool `json:"apv"`
}

// Issue signs a token for the given identity with HMAC-SHA256.
func Issue(secret []byte, who domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tasklane",
			Subject:   who.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IsAdmin:    who.IsAdmin,
		IsApproved: who.IsApproved,
	})
	return token.SignedString(secret)
}

func verify(secret []byte, signed string) (domain.Identity, error) {
	claims := new(TokenClaims)
	_, err := jwt.ParseWithClaims(
		signed, claims,
		func(token *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		Id:         claims.Subject,
		IsAdmin:    claims.IsAdmin,
		IsApproved: claims.IsApproved,
	}, nil
}

// extractToken finds the credential in the Authorization header, or,
// for websocket clients which cannot set headers, in the "token"
// query parameter.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.QueryParam("token")
}

// Middleware verifies the request credential and stores the caller's
// identity in the request context.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			signed := extractToken(c)
			if signed == "" {
				return apierr.Unauthorized("send a bearer token", nil)
			}
			who, err := verify(secret, signed)
			if err != nil {
				return apierr.Unauthorized("token is invalid or expired", err)
			}
			c.Set(identityContextKey, who)
			return next(c)
		}
	}
}

// Identity returns the caller stored by Middleware.
func Identity(c echo.Context) (domain.Identity, bool) {
	who, ok := c.Get(identityContextKey).(domain.Identity)
	return who, ok
}

// WithIdentity stores an identity directly. Meant for tests.
func WithIdentity(c echo.Context, who domain.Identity) {
	c.Set(identityContextKey, who)
}

// RequireApproved rejects callers awaiting admin approval.
func RequireApproved(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, ok := Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}
		if !who.IsApproved && !who.IsAdmin {
			return apierr.Forbidden("your account is not approved yet")
		}
		return next(c)
	}
}

// RequireAdmin rejects callers without the admin flag.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		who, ok := Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}
		if !who.IsAdmin {
			return apierr.Forbidden("admin only")
		}
		return next(c)
	}
}
