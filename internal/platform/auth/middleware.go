package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

type contextKey string

const identityKey contextKey = "auth_identity"

// IdentityFromContext returns the authenticated identity attached by
// Authenticate, or false if the request was not authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ContextWithIdentity attaches an identity directly. Handlers are tested
// against this without going through the middleware.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Authenticate verifies the bearer token and attaches the identity to the
// request context. Requests without a token, or with an invalid or expired
// one, are rejected.
func Authenticate(tm *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperror.Unauthorizedf("No token provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperror.Unauthorizedf("No token provided")
			}

			identity, err := tm.Verify(parts[1])
			if err != nil {
				return apperror.Unauthorizedf("Invalid or expired token")
			}

			ctx := ContextWithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole restricts a route to the listed roles. It must run after
// Authenticate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c.Request().Context())
			if !ok {
				return apperror.Unauthorizedf("Not authenticated")
			}

			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return apperror.Forbiddenf("Access denied. Required role: " + strings.Join(roles, " or "))
		}
	}
}
