package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication. Health and
// metrics are infrastructure endpoints; the intake and queue endpoints
// are called by the workflow automation, which authenticates at the
// network layer and carries no bearer token.
var publicPaths = map[string]bool{
	"/health":        true,
	"/metrics":       true,
	"/orders-intake": true,
	"/orders-queue":  true,
}

// AuthSkipper returns true for requests whose path should skip
// authentication. Pass it as the Skipper on JWTConfig so the automation
// and infrastructure endpoints stay reachable without a token.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given path bypasses auth.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
