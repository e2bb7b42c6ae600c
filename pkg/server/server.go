package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/folio/pkg/auth"
	"github.com/shishobooks/folio/pkg/binder"
	"github.com/shishobooks/folio/pkg/books"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/highlights"
	"github.com/shishobooks/folio/pkg/linkactions"
	"github.com/shishobooks/folio/pkg/pages"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenExpiry)
	authMiddleware := auth.RegisterRoutes(e, authService)

	registerBookRoutes(e, db, cfg, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerBookRoutes registers everything under /books. Every route needs a
// token; changes need the write scope.
func registerBookRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	booksGroup := e.Group("/books")
	booksGroup.Use(authMiddleware.Authenticate)
	books.RegisterRoutesWithGroup(booksGroup, db, cfg, authMiddleware)

	highlightsGroup := booksGroup.Group("/:id/highlights")
	highlights.RegisterRoutesWithGroup(highlightsGroup, db, authMiddleware)

	pagesGroup := booksGroup.Group("/:id/pages")
	pages.RegisterRoutesWithGroup(pagesGroup, db, cfg)
	linkactions.RegisterRoutesWithGroup(pagesGroup, db, cfg)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
