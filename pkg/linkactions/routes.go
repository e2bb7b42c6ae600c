package linkactions

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/folio/pkg/books"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the action route on a group mounted at
// /books/:id/pages.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		bookService: books.NewService(db, cfg.LibraryDir),
		listeners:   cfg.ClickListeners,
	}

	g.POST("/:page/actions", h.resolve)
}
