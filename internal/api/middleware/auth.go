package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"analytics-dashboard/internal/domain"
)

const identityContextKey = "identity"

// JWTAuth validates the Bearer token and stores the caller's identity in the
// echo context.
func JWTAuth(verifier domain.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromHeader(c.Request().Header.Get("Authorization"))
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication token required"})
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// RequireAdmin gates a route to admin-role callers. Must run after JWTAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFromContext(c)
		if identity == nil || identity.Role != domain.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Admin access required"})
		}
		return next(c)
	}
}

// IdentityFromContext returns the authenticated identity, or nil on a route
// that skipped JWTAuth.
func IdentityFromContext(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityContextKey).(*domain.Identity)
	return identity
}

func tokenFromHeader(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
