package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/auth"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a group mounted at /books.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		bookService: NewService(db, cfg.LibraryDir),
	}

	write := authMiddleware.RequireScope(auth.ScopeWrite)

	g.GET("", h.list)
	g.POST("", h.create, write)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/toc", h.toc)
	g.DELETE("/:id", h.delete, write)
}
