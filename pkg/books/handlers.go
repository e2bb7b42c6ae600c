package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"books": books,
		"total": total,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RegisterBook(ctx, params.Filepath, params.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("book registered", logger.Data{"book_id": book.ID, "page_count": book.PageCount})
	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) toc(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	e, err := h.bookService.OpenEPUB(book)
	if err != nil {
		return errors.WithStack(err)
	}
	defer e.Close()

	toc, err := e.TOC()
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"book_id": book.ID,
		"toc":     toc,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.bookService.DeleteBook(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
