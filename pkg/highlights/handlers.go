package highlights

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/models"
)

type handler struct {
	highlightService *Service
}

func (h *handler) requireBook(c echo.Context) (string, error) {
	bookID := c.Param("id")
	exists, err := h.highlightService.BookExists(c.Request().Context(), bookID)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !exists {
		return "", errcodes.NotFound("Book")
	}
	return bookID, nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := h.requireBook(c)
	if err != nil {
		return err
	}

	params := ListHighlightsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	highlights, total, err := h.highlightService.ListHighlightsWithTotal(ctx, ListHighlightsOptions{
		Limit:     &params.Limit,
		Offset:    &params.Offset,
		BookID:    &bookID,
		PageIndex: params.PageIndex,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"highlights": highlights,
		"total":      total,
	}))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := h.requireBook(c)
	if err != nil {
		return err
	}

	params := CreateHighlightPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	highlight := &models.Highlight{
		BookID:      bookID,
		PageIndex:   params.PageIndex,
		Content:     params.Content,
		ContentPre:  params.ContentPre,
		ContentPost: params.ContentPost,
		StyleKind:   params.StyleKind,
		Note:        params.Note,
		StartOffset: params.StartOffset,
		EndOffset:   params.EndOffset,
	}
	if params.ID != nil {
		highlight.ID = *params.ID
	}

	if err := h.highlightService.CreateHighlight(ctx, highlight); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, highlight))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("id")
	id := c.Param("highlightId")

	highlight, err := h.highlightService.RetrieveHighlight(ctx, RetrieveHighlightOptions{
		ID:     &id,
		BookID: &bookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, highlight))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("id")
	id := c.Param("highlightId")

	params := UpdateHighlightPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	highlight, err := h.highlightService.RetrieveHighlight(ctx, RetrieveHighlightOptions{
		ID:     &id,
		BookID: &bookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateHighlightOptions{}
	if params.StyleKind != nil && *params.StyleKind != highlight.StyleKind {
		highlight.StyleKind = *params.StyleKind
		opts.Columns = append(opts.Columns, "style_kind")
	}
	if params.Note != nil {
		// An empty note clears it.
		if *params.Note == "" {
			highlight.Note = nil
		} else {
			highlight.Note = params.Note
		}
		opts.Columns = append(opts.Columns, "note")
	}

	if err := h.highlightService.UpdateHighlight(ctx, highlight, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, highlight))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("id")
	id := c.Param("highlightId")

	// Scope the delete to the book in the URL.
	if _, err := h.highlightService.RetrieveHighlight(ctx, RetrieveHighlightOptions{
		ID:     &id,
		BookID: &bookID,
	}); err != nil {
		return errors.WithStack(err)
	}

	if err := h.highlightService.DeleteHighlight(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
