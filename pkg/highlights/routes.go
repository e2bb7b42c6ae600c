package highlights

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers highlight routes on a group mounted at
// /books/:id/highlights.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		highlightService: NewService(db),
	}

	write := authMiddleware.RequireScope(auth.ScopeWrite)

	g.GET("", h.list)
	g.POST("", h.create, write)
	g.GET("/:highlightId", h.retrieve)
	g.PATCH("/:highlightId", h.update, write)
	g.DELETE("/:highlightId", h.delete, write)
}
