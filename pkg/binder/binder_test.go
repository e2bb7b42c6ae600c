package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type highlightParams struct {
	Content   string `json:"content" mod:"trim" validate:"required,max=9"`
	StyleKind string `json:"style_kind" default:"yellow" validate:"stylekind"`
	Color     string `json:"color" validate:"csscolor"`
	Omit      string `json:"-"`
}

type pageQuery struct {
	Font      string `query:"font" default:"andada"`
	FontSize  int    `query:"size" default:"2" validate:"min=0,max=4"`
	NightMode bool   `query:"night_mode"`
}

func TestBind_JSON(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("only allows json and urlencoded forms", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":"a"}`, echo.MIMEApplicationXML)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":"a","foo":"bar"}`, echo.MIMEApplicationJSON)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":123}`, echo.MIMEApplicationJSON)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `"content" should be of type string`)
	})

	t.Run("trims and fills defaults", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":" word "}`, echo.MIMEApplicationJSON)
		p := highlightParams{}
		require.NoError(t, b.Bind(&p, c))
		assert.Equal(t, "word", p.Content)
		assert.Equal(t, "yellow", p.StyleKind)
	})

	t.Run("validates lengths", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":"0123456789"}`, echo.MIMEApplicationJSON)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("validates style kinds", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":"a","style_kind":"Not A Style"}`, echo.MIMEApplicationJSON)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `"style_kind" must be a lowercase style name`)
	})

	t.Run("validates colors", func(t *testing.T) {
		c := newContext(http.MethodPost, `{"content":"a","color":"red\");alert(1"}`, echo.MIMEApplicationJSON)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `"color" must be a hex color`)
	})

	t.Run("rejects empty bodies on writes", func(t *testing.T) {
		c := newContext(http.MethodPost, "", echo.MIMEApplicationJSON)
		p := highlightParams{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), "Request body can't be empty.")
	})
}

func TestBind_Query(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes query params", func(t *testing.T) {
		c := newContext(http.MethodGet, "", "")
		c.Request().URL.RawQuery = "font=lato&size=3&night_mode=true"
		p := pageQuery{}
		require.NoError(t, b.Bind(&p, c))
		assert.Equal(t, "lato", p.Font)
		assert.Equal(t, 3, p.FontSize)
		assert.True(t, p.NightMode)
	})

	t.Run("fills defaults", func(t *testing.T) {
		c := newContext(http.MethodGet, "", "")
		p := pageQuery{}
		require.NoError(t, b.Bind(&p, c))
		assert.Equal(t, "andada", p.Font)
		assert.Equal(t, 2, p.FontSize)
	})

	t.Run("reports conversion errors", func(t *testing.T) {
		c := newContext(http.MethodGet, "", "")
		c.Request().URL.RawQuery = "size=big"
		p := pageQuery{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `"size" should be of type int`)
	})

	t.Run("reports unknown params", func(t *testing.T) {
		c := newContext(http.MethodGet, "", "")
		c.Request().URL.RawQuery = "zoom=2"
		p := pageQuery{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `Unknown Parameter "zoom"`)
	})

	t.Run("ignores access tokens", func(t *testing.T) {
		c := newContext(http.MethodGet, "", "")
		c.Request().URL.RawQuery = "access_token=abc&size=1"
		p := pageQuery{}
		require.NoError(t, b.Bind(&p, c))
		assert.Equal(t, 1, p.FontSize)
	})

	t.Run("validates ranges", func(t *testing.T) {
		c := newContext(http.MethodGet, "", "")
		c.Request().URL.RawQuery = "size=9"
		p := pageQuery{}
		err := b.Bind(&p, c)
		assert.Contains(t, err.Error(), `"size" must be less than or equal to 4`)
	})
}

func newContext(method, payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(payload))
	if mime != "" {
		req.Header.Set(echo.HeaderContentType, mime)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
