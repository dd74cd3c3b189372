package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/pkg/errors"
	"predu/pkg/response"
)

const (
	ContextKeyUID      = "uid"
	ContextKeyIdentity = "identity"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*entity.Identity, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate requires a valid bearer token of a registered (non-guest) user.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		identity, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}
		if identity.Anonymous {
			return response.Error(c, errors.Forbidden("Guests cannot use this endpoint", nil))
		}

		setIdentity(c, identity)
		return next(c)
	}
}

// Optional sets the identity when the request carries a valid token and
// continues without one otherwise.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		identity, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return next(c)
		}

		setIdentity(c, identity)
		return next(c)
	}
}

// IdentityFrom returns the identity set by Authenticate or Optional.
func IdentityFrom(c echo.Context) *entity.Identity {
	identity, _ := c.Get(ContextKeyIdentity).(*entity.Identity)
	return identity
}

func setIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(ContextKeyUID, identity.UID)
	c.Set(ContextKeyIdentity, identity)
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
