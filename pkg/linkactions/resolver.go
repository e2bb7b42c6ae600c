package linkactions

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/config"
)

const (
	SchemeHighlight         = "highlight"
	SchemeHighlightWithNote = "highlight-with-note"
	SchemePlayAudio         = "play-audio"
	SchemeFile              = "file"
	SchemeMailto            = "mailto"
	SchemeHTTP              = "http"
	SchemeHTTPS             = "https"
	SchemeAbout             = "about"

	clientPositionMarker = "/clientX="
)

var (
	ErrMalformedURL = errors.New("malformed url")

	schemeRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)
	// {{x, y}, {width, height}}
	rectRE   = regexp.MustCompile(`^\{\{\s*(-?[0-9.]+)\s*,\s*(-?[0-9.]+)\s*\}\s*,\s*\{\s*(-?[0-9.]+)\s*,\s*(-?[0-9.]+)\s*\}\}$`)
	clientRE = regexp.MustCompile(`^/clientX=(-?\d+)&clientY=(-?\d+)$`)
)

// Navigator answers questions about the book's spine. *epub.Book satisfies
// it.
type Navigator interface {
	FindPageByHref(href string) (int, bool)
	ChapterHref(pageIndex int) (string, error)
}

// Request is a navigation the page's web view is about to make.
type Request struct {
	URL         string
	PageIndex   int
	LinkClicked bool
}

// Handler turns a request for one scheme into an action. rest is everything
// after "<scheme>:".
type Handler interface {
	Handle(ctx context.Context, req Request, rest string) (Action, error)
}

type HandlerFunc func(ctx context.Context, req Request, rest string) (Action, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request, rest string) (Action, error) {
	return f(ctx, req, rest)
}

// Resolver dispatches requests on their URL scheme. Schemes without a
// handler are opened with the system.
type Resolver struct {
	nav      Navigator
	handlers map[string]Handler
}

// NewResolver returns a resolver with the built-in schemes plus one handler
// per click listener. Listeners can't take over a built-in scheme.
func NewResolver(nav Navigator, listeners []config.ClickListener) *Resolver {
	r := &Resolver{nav: nav, handlers: map[string]Handler{}}

	r.Register(SchemeHighlight, highlightHandler(false))
	r.Register(SchemeHighlightWithNote, highlightHandler(true))
	r.Register(SchemePlayAudio, HandlerFunc(r.playAudio))
	r.Register(SchemeFile, HandlerFunc(r.file))
	r.Register(SchemeMailto, HandlerFunc(passthrough))
	r.Register(SchemeAbout, HandlerFunc(passthrough))
	r.Register(SchemeHTTP, HandlerFunc(web))
	r.Register(SchemeHTTPS, HandlerFunc(web))

	for _, l := range listeners {
		scheme := strings.ToLower(l.SchemeName)
		if scheme == "" {
			continue
		}
		if _, ok := r.handlers[scheme]; ok {
			continue
		}
		r.Register(scheme, classClickHandler(scheme))
	}

	return r
}

// Register sets the handler for scheme, replacing any existing one.
func (r *Resolver) Register(scheme string, h Handler) {
	r.handlers[strings.ToLower(scheme)] = h
}

func (r *Resolver) Resolve(ctx context.Context, req Request) (Action, error) {
	scheme, rest, ok := strings.Cut(req.URL, ":")
	if !ok || !schemeRE.MatchString(scheme) {
		return nil, errors.Wrapf(ErrMalformedURL, "no scheme in %q", req.URL)
	}
	scheme = strings.ToLower(scheme)

	h, ok := r.handlers[scheme]
	if !ok {
		return OpenWithSystem{URL: req.URL}, nil
	}
	return h.Handle(ctx, req, rest)
}

// decodeAuthority drops the leading "//" and percent-decodes the rest.
func decodeAuthority(rest string) (string, error) {
	decoded, err := url.PathUnescape(strings.TrimPrefix(rest, "//"))
	if err != nil {
		return "", errors.Wrap(ErrMalformedURL, err.Error())
	}
	return decoded, nil
}

func highlightHandler(withNote bool) Handler {
	return HandlerFunc(func(_ context.Context, _ Request, rest string) (Action, error) {
		decoded, err := decodeAuthority(rest)
		if err != nil {
			return nil, err
		}
		rect, err := parseRect(decoded)
		if err != nil {
			return nil, err
		}
		return ShowHighlightMenu{Rect: rect, WithNote: withNote}, nil
	})
}

func parseRect(s string) (Rect, error) {
	m := rectRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Rect{}, errors.Wrapf(ErrMalformedURL, "invalid rect %q", s)
	}
	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return Rect{}, errors.Wrapf(ErrMalformedURL, "invalid rect %q", s)
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func (r *Resolver) playAudio(_ context.Context, req Request, rest string) (Action, error) {
	fragmentID, err := decodeAuthority(rest)
	if err != nil {
		return nil, err
	}
	href := ""
	if r.nav != nil {
		href, _ = r.nav.ChapterHref(req.PageIndex)
	}
	return PlayAudio{Href: href, FragmentID: fragmentID}, nil
}

func (r *Resolver) file(_ context.Context, req Request, _ string) (Action, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedURL, err.Error())
	}
	anchor := u.Fragment

	if path.Ext(u.Path) == "" {
		if anchor != "" {
			return ScrollToAnchor{Anchor: anchor}, nil
		}
		return Passthrough{URL: req.URL}, nil
	}

	if r.nav == nil {
		return Passthrough{URL: req.URL}, nil
	}
	page, ok := r.nav.FindPageByHref(u.Path)
	if !ok {
		return Passthrough{URL: req.URL}, nil
	}

	if page == req.PageIndex {
		if anchor != "" {
			return ScrollToAnchor{Anchor: anchor}, nil
		}
		return None{}, nil
	}

	href, err := r.nav.ChapterHref(page)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ChangePage{Href: href, PageIndex: page, Anchor: anchor}, nil
}

func passthrough(_ context.Context, req Request, _ string) (Action, error) {
	return Passthrough{URL: req.URL}, nil
}

// web opens tapped links in the in-app browser. Loads the page makes on its
// own stay in the web view.
func web(_ context.Context, req Request, _ string) (Action, error) {
	if req.LinkClicked {
		return OpenExternal{URL: req.URL}, nil
	}
	return Passthrough{URL: req.URL}, nil
}

// classClickHandler handles <scheme>://<attribute>/clientX=<x>&clientY=<y>.
// URLs without a valid position are opened with the system.
func classClickHandler(scheme string) Handler {
	return HandlerFunc(func(_ context.Context, req Request, rest string) (Action, error) {
		idx := strings.LastIndex(rest, clientPositionMarker)
		if idx < 0 {
			return OpenWithSystem{URL: req.URL}, nil
		}
		m := clientRE.FindStringSubmatch(rest[idx:])
		if m == nil {
			return OpenWithSystem{URL: req.URL}, nil
		}
		x, errX := strconv.Atoi(m[1])
		y, errY := strconv.Atoi(m[2])
		if errX != nil || errY != nil {
			return OpenWithSystem{URL: req.URL}, nil
		}

		attr, err := decodeAuthority(rest[:idx])
		if err != nil {
			return nil, err
		}
		return ClassClick{Scheme: scheme, Attribute: attr, Point: Point{X: x, Y: y}}, nil
	})
}
