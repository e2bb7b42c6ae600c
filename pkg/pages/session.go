package pages

import (
	"strconv"

	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/models"
)

const (
	FontAndada  = "andada"
	FontLato    = "lato"
	FontLora    = "lora"
	FontRaleway = "raleway"

	MediaOverlayStyleUnderline = 0
	MediaOverlayStyleTextColor = 1
	MediaOverlayStyleDefault   = 2

	nightModeClass = "nightMode"
)

var fontSizeClasses = []string{
	"textSizeOne",
	"textSizeTwo",
	"textSizeThree",
	"textSizeFour",
	"textSizeFive",
}

// Session holds the reader state a page is rendered for. It is read only
// and passed along with every render.
type Session struct {
	Font                   string
	FontSize               int
	NightMode              bool
	MediaOverlayStyle      int
	MediaOverlayColor      string
	MediaOverlayColorLight string
	Direction              string
	EnableTTS              bool
	BookHasAudio           bool
	ClickListeners         []config.ClickListener
	BridgeScriptURL        string
	StylesheetURL          string
}

// DefaultSession returns the session described by the config.
func DefaultSession(cfg *config.Config) Session {
	return Session{
		Font:                   cfg.DefaultFont,
		FontSize:               cfg.DefaultFontSize,
		MediaOverlayStyle:      MediaOverlayStyleUnderline,
		MediaOverlayColor:      cfg.MediaOverlayColor,
		MediaOverlayColorLight: cfg.MediaOverlayColorLight,
		Direction:              models.PageProgressionLTR,
		BridgeScriptURL:        cfg.BridgeScriptURL,
		StylesheetURL:          cfg.StylesheetURL,
		ClickListeners:         cfg.ClickListeners,
	}
}

// HTMLClasses returns the classes the reader stylesheet expects on the root
// element, e.g. "andada mediaOverlayStyle0 textSizeThree".
func (s Session) HTMLClasses() []string {
	font := s.Font
	if font == "" {
		font = FontAndada
	}

	size := s.FontSize
	if size < 0 {
		size = 0
	}
	if size >= len(fontSizeClasses) {
		size = len(fontSizeClasses) - 1
	}

	overlay := s.MediaOverlayStyle
	if overlay < MediaOverlayStyleUnderline || overlay > MediaOverlayStyleDefault {
		overlay = MediaOverlayStyleUnderline
	}

	classes := []string{
		font,
		"mediaOverlayStyle" + strconv.Itoa(overlay),
		fontSizeClasses[size],
	}
	if s.NightMode {
		classes = append(classes, nightModeClass)
	}
	return classes
}

// ShouldWrapSentences reports whether the page should split paragraphs into
// sentence spans for text to speech. Books with a media overlay bring their
// own audio sync, so they never need it.
func (s Session) ShouldWrapSentences() bool {
	return s.EnableTTS && !s.BookHasAudio
}
