package highlights

import (
	"strings"

	"github.com/shishobooks/folio/pkg/models"
	"golang.org/x/net/html"
)

// Click handlers defined by the reader bridge script.
const (
	dispatchHighlight         = "callHighlightURL(this);"
	dispatchHighlightWithNote = "callHighlightWithNoteURL(this);"
)

// Styles maps a highlight style kind to its CSS class.
type Styles map[string]string

// DefaultStyles returns the built-in style classes.
func DefaultStyles() Styles {
	styles := make(Styles, len(models.HighlightStyleClasses))
	for kind, class := range models.HighlightStyleClasses {
		styles[kind] = class
	}
	return styles
}

// DefaultStylesWith returns the built-in style classes plus extra ones. Extra
// entries win over built-in ones with the same kind.
func DefaultStylesWith(extra map[string]string) Styles {
	styles := DefaultStyles()
	for kind, class := range extra {
		styles[kind] = class
	}
	return styles
}

// ClassFor returns the class for kind, falling back to yellow for unknown
// kinds.
func (s Styles) ClassFor(kind string) string {
	if class, ok := s[kind]; ok && class != "" {
		return class
	}
	return models.HighlightStyleClasses[models.HighlightStyleYellow]
}

// wrapperTag builds the element that replaces a highlight's text. The content
// goes in untouched since it was cut from the markup in the first place.
func wrapperTag(r Record, class string) string {
	dispatch := dispatchHighlight
	if r.HasNote() {
		dispatch = dispatchHighlightWithNote
	}

	var b strings.Builder
	b.WriteString(`<highlight id="`)
	b.WriteString(html.EscapeString(r.ID))
	b.WriteString(`" onclick="`)
	b.WriteString(dispatch)
	b.WriteString(`" class="`)
	b.WriteString(html.EscapeString(class))
	b.WriteString(`">`)
	b.WriteString(r.Content)
	b.WriteString(`</highlight>`)
	return b.String()
}
