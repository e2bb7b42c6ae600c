package linkactions

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/books"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/errcodes"
)

type handler struct {
	bookService *books.Service
	listeners   []config.ClickListener
}

type actionResponse struct {
	Type   Kind   `json:"type"`
	Action Action `json:"action"`
}

func (h *handler) resolve(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		return errcodes.NotFound("Page")
	}

	params := ResolveActionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	id := c.Param("id")
	book, err := h.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}
	if page > book.PageCount {
		return errcodes.NotFound("Page")
	}

	e, err := h.bookService.OpenEPUB(book)
	if err != nil {
		return errors.WithStack(err)
	}
	defer e.Close()

	action, err := NewResolver(e, h.listeners).Resolve(ctx, Request{
		URL:         params.URL,
		PageIndex:   page,
		LinkClicked: params.LinkClicked,
	})
	if err != nil {
		if errors.Is(err, ErrMalformedURL) {
			return errcodes.ValidationError(err.Error())
		}
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, actionResponse{
		Type:   action.Kind(),
		Action: action,
	}))
}
