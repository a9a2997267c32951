package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Clinical roles assignable through the identity provider.
const (
	RoleDoctor = "doctor"
	RoleNurse  = "nurse"
)

// ValidRole reports whether the given role is one rxgate knows about.
func ValidRole(role string) bool {
	return role == RoleDoctor || role == RoleNurse
}

// RequireRole returns middleware that checks if the user holds one of the
// specified roles. Doctors pass any role check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := RoleFromContext(c.Request().Context())
			if userRole == RoleDoctor {
				return next(c)
			}
			for _, required := range roles {
				if userRole == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequireAuthenticated returns middleware that rejects requests with no
// resolved user identity.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserIDFromContext(c.Request().Context()) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
