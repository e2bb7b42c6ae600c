package pages

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/errcodes"
)

const headerHighlightMisses = "X-Highlight-Misses"

type handler struct {
	pageService *Service
	session     Session
}

func pageIndexParam(c echo.Context) (int, error) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		return 0, errcodes.NotFound("Page")
	}
	return page, nil
}

func (h *handler) render(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageIndexParam(c)
	if err != nil {
		return err
	}

	params := RenderPageQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rendered, err := h.pageService.Render(ctx, RenderOptions{
		BookID:    c.Param("id"),
		PageIndex: page,
		Session:   params.apply(h.session),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(headerHighlightMisses, strconv.Itoa(len(rendered.Misses)))
	return errors.WithStack(c.HTML(http.StatusOK, rendered.HTML))
}

func (h *handler) diagnostics(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pageIndexParam(c)
	if err != nil {
		return err
	}

	rendered, err := h.pageService.Render(ctx, RenderOptions{
		BookID:    c.Param("id"),
		PageIndex: page,
		Session:   h.session,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rendered))
}
