package highlights

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/models"
)

var (
	// ErrLocatorNotFound means the highlight's context no longer occurs in
	// the markup, usually because the chapter changed after it was created.
	ErrLocatorNotFound = errors.New("highlight locator not found")
	// ErrMalformedRecord means the stored highlight can't be located at all
	// (no ID or no content). It is handled exactly like a missing locator.
	ErrMalformedRecord = errors.New("malformed highlight record")
)

// Record is what the engine reads from a stored highlight.
type Record struct {
	ID          string
	BookID      string
	PageIndex   int
	Content     string
	ContentPre  string
	ContentPost string
	StyleKind   string
	Note        *string
}

func (r Record) HasNote() bool {
	return r.Note != nil && *r.Note != ""
}

// RecordFromModel converts a stored highlight.
func RecordFromModel(h *models.Highlight) Record {
	return Record{
		ID:          h.ID,
		BookID:      h.BookID,
		PageIndex:   h.PageIndex,
		Content:     h.Content,
		ContentPre:  h.ContentPre,
		ContentPost: h.ContentPost,
		StyleKind:   h.StyleKind,
		Note:        h.Note,
	}
}

// RecordsFromModels converts stored highlights, keeping their order.
func RecordsFromModels(hs []*models.Highlight) []Record {
	records := make([]Record, 0, len(hs))
	for _, h := range hs {
		records = append(records, RecordFromModel(h))
	}
	return records
}

type options struct {
	sink   DiagnosticsSink
	styles Styles
}

type Option func(*options)

// WithSink sets where misses are reported. The default discards them.
func WithSink(sink DiagnosticsSink) Option {
	return func(o *options) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithStyles sets the style kind to CSS class mapping used for wrapper tags.
func WithStyles(styles Styles) Option {
	return func(o *options) {
		if styles != nil {
			o.styles = styles
		}
	}
}

// Reinsert wraps the text of every highlight it can locate in markup with an
// interactive <highlight> element and returns the patched markup. Highlights
// are applied one at a time in the given order, and each one is searched for
// in the markup produced by the previous ones. A highlight whose context spans
// an earlier highlight's boundary therefore no longer matches and is skipped.
//
// Reinsert never fails. Highlights that can't be placed are reported to the
// configured sink and left out.
func Reinsert(markup string, records []Record, opts ...Option) string {
	o := &options{sink: NopSink{}, styles: DefaultStyles()}
	for _, opt := range opts {
		opt(o)
	}

	for _, r := range records {
		next, err := step(markup, r, o.styles)
		if err != nil {
			o.sink.Miss(newMissEvent(r, err))
			continue
		}
		markup = next
	}

	return markup
}

// Step applies a single highlight to markup with the default styles. It
// returns the markup unchanged and false when the highlight isn't found.
func Step(markup string, r Record) (string, bool) {
	next, err := step(markup, r, DefaultStyles())
	if err != nil {
		return markup, false
	}
	return next, true
}

func step(markup string, r Record, styles Styles) (string, error) {
	if r.ID == "" || r.Content == "" {
		return markup, ErrMalformedRecord
	}

	// Normalize the locator as a whole so a sentence wrapper opened in the
	// preceding context and closed inside the content is still recognized,
	// then find where the content starts and ends after normalization.
	// Whitespace runs are collapsed only when the locator isn't found as
	// captured.
	raw := r.ContentPre + r.Content + r.ContentPost
	loc, contentStart, contentEnd := -1, 0, 0
	tried := ""
	for _, collapseSpace := range []bool{false, true} {
		locator, passes := normalize(raw, collapseSpace)
		start := mapOffset(len(r.ContentPre), passes)
		end := mapOffset(len(r.ContentPre)+len(r.Content), passes)
		if end <= start {
			if !collapseSpace {
				return markup, ErrMalformedRecord
			}
			break
		}
		if collapseSpace && locator == tried {
			break
		}
		tried = locator

		if i := strings.Index(markup, locator); i >= 0 {
			loc, contentStart, contentEnd = i, start, end
			break
		}
	}
	if loc < 0 {
		return markup, ErrLocatorNotFound
	}

	tag := wrapperTag(r, styles.ClassFor(r.StyleKind))

	var b strings.Builder
	b.Grow(len(markup) - (contentEnd - contentStart) + len(tag))
	b.WriteString(markup[:loc+contentStart])
	b.WriteString(tag)
	b.WriteString(markup[loc+contentEnd:])
	return b.String(), nil
}
