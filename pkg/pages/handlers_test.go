package pages

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/binder"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, f *fixture) (*handler, *echo.Echo) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b

	return &handler{pageService: NewService(f.db, f.cfg), session: DefaultSession(f.cfg)}, e
}

func newPageContext(e *echo.Echo, target, bookID, page string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "page")
	c.SetParamValues(bookID, page)
	return c, rec
}

func TestHandler_Render(t *testing.T) {
	t.Parallel()
	f := setupFixture(t, mobyDick())
	f.addHighlight(t, &models.Highlight{ID: "h1", PageIndex: 1, Content: "Ishmael", ContentPre: "me ", ContentPost: "."})
	f.addHighlight(t, &models.Highlight{ID: "h2", PageIndex: 1, Content: "kraken", ContentPre: "the ", ContentPost: "."})
	h, e := newTestHandler(t, f)

	c, rec := newPageContext(e, "/books/moby/pages/1?font=lora&size=4&night_mode=true&media_overlay_style=1", "moby", "1")
	require.NoError(t, h.render(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Equal(t, "1", rec.Header().Get(headerHighlightMisses))
	assert.Contains(t, rec.Body.String(), `<html class="lora mediaOverlayStyle1 textSizeFive nightMode"`)
	assert.Contains(t, rec.Body.String(), `<highlight id="h1"`)
}

func TestHandler_Render_InvalidQuery(t *testing.T) {
	t.Parallel()
	f := setupFixture(t, mobyDick())
	h, e := newTestHandler(t, f)

	c, _ := newPageContext(e, "/books/moby/pages/1?font=comic-sans", "moby", "1")
	err := h.render(c)
	var ce *errcodes.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusUnprocessableEntity, ce.HTTPCode)
}

func TestHandler_Render_OverlayColors(t *testing.T) {
	t.Parallel()
	f := setupFixture(t, mobyDick())
	h, e := newTestHandler(t, f)

	c, rec := newPageContext(e, "/books/moby/pages/1?overlay_color=%23ff0000&overlay_color_light=%23ffeeee", "moby", "1")
	require.NoError(t, h.render(c))
	assert.Contains(t, rec.Body.String(), `setMediaOverlayStyleColors("#ff0000", "#ffeeee");`)

	c, _ = newPageContext(e, "/books/moby/pages/1?overlay_color=red", "moby", "1")
	err := h.render(c)
	var ce *errcodes.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusUnprocessableEntity, ce.HTTPCode)
	assert.Contains(t, ce.Message, "hex color")
}

func TestHandler_Render_BadPage(t *testing.T) {
	t.Parallel()
	f := setupFixture(t, mobyDick())
	h, e := newTestHandler(t, f)

	for _, page := range []string{"0", "x", "-1", "9"} {
		c, _ := newPageContext(e, "/books/moby/pages/"+page, "moby", page)
		err := h.render(c)
		assert.True(t, errors.Is(err, errcodes.NotFound("Page")), "page %s", page)
	}
}

func TestHandler_Diagnostics(t *testing.T) {
	t.Parallel()
	f := setupFixture(t, mobyDick())
	f.addHighlight(t, &models.Highlight{ID: "lost", PageIndex: 2, Content: "whale", ContentPre: "a ", ContentPost: "."})
	h, e := newTestHandler(t, f)

	c, rec := newPageContext(e, "/books/moby/pages/2/diagnostics", "moby", "2")
	require.NoError(t, h.diagnostics(c))

	var resp struct {
		BookID    string `json:"book_id"`
		PageIndex int    `json:"page_index"`
		PageCount int    `json:"page_count"`
		Misses    []struct {
			HighlightID string `json:"highlight_id"`
			Reason      string `json:"reason"`
		} `json:"misses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "moby", resp.BookID)
	assert.Equal(t, 2, resp.PageIndex)
	assert.Equal(t, 2, resp.PageCount)
	require.Len(t, resp.Misses, 1)
	assert.Equal(t, "lost", resp.Misses[0].HighlightID)
	assert.Equal(t, "locator_not_found", resp.Misses[0].Reason)
	assert.NotContains(t, rec.Body.String(), "<html")
}
