package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the auth routes and returns the middleware that
// protects the rest of the API.
func RegisterRoutes(e *echo.Echo, authService *Service) *Middleware {
	m := NewMiddleware(authService)
	h := &handler{}

	g := e.Group("/auth")
	g.GET("/me", h.me, m.Authenticate)

	return m
}
