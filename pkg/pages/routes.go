package pages

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers page routes on a group mounted at
// /books/:id/pages.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		pageService: NewService(db, cfg),
		session:     DefaultSession(cfg),
	}

	g.GET("/:page", h.render)
	g.GET("/:page/diagnostics", h.diagnostics)
}
