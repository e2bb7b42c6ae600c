package linkactions

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNavigator struct {
	pages []string
}

func (n fakeNavigator) FindPageByHref(href string) (int, bool) {
	for i, p := range n.pages {
		if strings.HasSuffix(href, p) {
			return i + 1, true
		}
	}
	return 0, false
}

func (n fakeNavigator) ChapterHref(pageIndex int) (string, error) {
	if pageIndex < 1 || pageIndex > len(n.pages) {
		return "", errors.New("out of range")
	}
	return n.pages[pageIndex-1], nil
}

func newTestResolver() *Resolver {
	nav := fakeNavigator{pages: []string{"text/one.xhtml", "text/two.xhtml"}}
	return NewResolver(nav, []config.ClickListener{
		{SchemeName: "footnote", QuerySelector: "a.fn", AttributeName: "href"},
		{SchemeName: "file", QuerySelector: "a", AttributeName: "href"},
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      Request
		expected Action
	}{
		{
			name:     "highlight menu",
			req:      Request{URL: "highlight://%7B%7B10,20%7D,%20%7B30.5,40%7D%7D", PageIndex: 1},
			expected: ShowHighlightMenu{Rect: Rect{X: 10, Y: 20, Width: 30.5, Height: 40}},
		},
		{
			name:     "highlight with note menu",
			req:      Request{URL: "highlight-with-note://{{1,2},{3,4}}", PageIndex: 1},
			expected: ShowHighlightMenu{Rect: Rect{X: 1, Y: 2, Width: 3, Height: 4}, WithNote: true},
		},
		{
			name:     "play audio",
			req:      Request{URL: "play-audio://para%2D12", PageIndex: 2},
			expected: PlayAudio{Href: "text/two.xhtml", FragmentID: "para-12"},
		},
		{
			name:     "anchor on the current page",
			req:      Request{URL: "file:///books/moby/OEBPS/text/one.xhtml#note-3", PageIndex: 1},
			expected: ScrollToAnchor{Anchor: "note-3"},
		},
		{
			name:     "current page without anchor",
			req:      Request{URL: "file:///books/moby/OEBPS/text/one.xhtml", PageIndex: 1},
			expected: None{},
		},
		{
			name:     "link to another page",
			req:      Request{URL: "file:///books/moby/OEBPS/text/two.xhtml#s2", PageIndex: 1},
			expected: ChangePage{Href: "text/two.xhtml", PageIndex: 2, Anchor: "s2"},
		},
		{
			name:     "file outside the spine",
			req:      Request{URL: "file:///books/moby/OEBPS/images/map.png", PageIndex: 1},
			expected: Passthrough{URL: "file:///books/moby/OEBPS/images/map.png"},
		},
		{
			name:     "bare anchor",
			req:      Request{URL: "file:///books/moby/#top", PageIndex: 1},
			expected: ScrollToAnchor{Anchor: "top"},
		},
		{
			name:     "directory without anchor",
			req:      Request{URL: "file:///books/moby/", PageIndex: 1},
			expected: Passthrough{URL: "file:///books/moby/"},
		},
		{
			name:     "mailto",
			req:      Request{URL: "mailto:ishmael@pequod.example", LinkClicked: true},
			expected: Passthrough{URL: "mailto:ishmael@pequod.example"},
		},
		{
			name:     "tapped web link",
			req:      Request{URL: "https://example.com/whales", LinkClicked: true},
			expected: OpenExternal{URL: "https://example.com/whales"},
		},
		{
			name:     "web load that wasn't a tap",
			req:      Request{URL: "http://example.com/frame"},
			expected: Passthrough{URL: "http://example.com/frame"},
		},
		{
			name:     "about blank",
			req:      Request{URL: "about:blank", LinkClicked: true},
			expected: Passthrough{URL: "about:blank"},
		},
		{
			name:     "class based click listener",
			req:      Request{URL: "footnote://note%20one/clientX=188&clientY=292"},
			expected: ClassClick{Scheme: "footnote", Attribute: "note one", Point: Point{X: 188, Y: 292}},
		},
		{
			name:     "click listener scheme is case insensitive",
			req:      Request{URL: "FOOTNOTE://n1/clientX=1&clientY=2"},
			expected: ClassClick{Scheme: "footnote", Attribute: "n1", Point: Point{X: 1, Y: 2}},
		},
		{
			name:     "click listener without a position",
			req:      Request{URL: "footnote://n1"},
			expected: OpenWithSystem{URL: "footnote://n1"},
		},
		{
			name:     "unknown scheme",
			req:      Request{URL: "tel:+15555550123", LinkClicked: true},
			expected: OpenWithSystem{URL: "tel:+15555550123"},
		},
	}

	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			action, err := r.Resolve(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, action)
			assert.Equal(t, tt.expected.Kind(), action.Kind())
		})
	}
}

func TestResolver_Resolve_Malformed(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	for _, u := range []string{
		"",
		"no scheme here",
		"1abc://x",
		"highlight://not-a-rect",
		"highlight://{{1,2},{3}}",
		"highlight://%zz",
	} {
		_, err := r.Resolve(context.Background(), Request{URL: u})
		assert.True(t, errors.Is(err, ErrMalformedURL), "url %q", u)
	}
}

func TestResolver_Register(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, nil)
	r.Register("tel", HandlerFunc(func(_ context.Context, req Request, rest string) (Action, error) {
		return Passthrough{URL: rest}, nil
	}))

	action, err := r.Resolve(context.Background(), Request{URL: "tel:+15555550123"})
	require.NoError(t, err)
	assert.Equal(t, Passthrough{URL: "+15555550123"}, action)

	// Without a navigator, spine links are left to the web view.
	action, err = r.Resolve(context.Background(), Request{URL: "file:///a/b.xhtml"})
	require.NoError(t, err)
	assert.Equal(t, Passthrough{URL: "file:///a/b.xhtml"}, action)
}
