package models

import (
	"regexp"
	"time"

	"github.com/uptrace/bun"
)

const (
	HighlightStyleYellow    = "yellow"
	HighlightStyleGreen     = "green"
	HighlightStyleBlue      = "blue"
	HighlightStylePink      = "pink"
	HighlightStyleUnderline = "underline"
)

// HighlightStyleClasses maps the built-in style kinds to the CSS classes the
// reader stylesheet defines for them.
var HighlightStyleClasses = map[string]string{
	HighlightStyleYellow:    "highlight-yellow",
	HighlightStyleGreen:     "highlight-green",
	HighlightStyleBlue:      "highlight-blue",
	HighlightStylePink:      "highlight-pink",
	HighlightStyleUnderline: "highlight-underline",
}

// Custom style kinds are allowed as long as they can be turned into a class
// name.
var styleKindRE = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

func IsValidHighlightStyle(kind string) bool {
	return styleKindRE.MatchString(kind)
}

type Highlight struct {
	bun.BaseModel `bun:"table:highlights,alias:h"`

	// Seq fixes the order highlights were stored in. Re-insertion depends on
	// that order, so listings for rendering always sort by it.
	Seq         int       `bun:",pk,autoincrement" json:"-"`
	ID          string    `bun:",notnull,unique" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	BookID      string    `bun:",notnull" json:"book_id"`
	PageIndex   int       `bun:",notnull" json:"page_index"`
	Content     string    `bun:",notnull" json:"content"`
	ContentPre  string    `bun:",notnull" json:"content_pre"`
	ContentPost string    `bun:",notnull" json:"content_post"`
	StyleKind   string    `bun:",notnull" json:"style_kind"`
	Note        *string   `json:"note"`
	StartOffset *int      `json:"start_offset,omitempty"`
	EndOffset   *int      `json:"end_offset,omitempty"`

	// Text is Content without markup. It's filled in by the service.
	Text string `bun:"-" json:"text"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id" json:"-"`
}

func (h *Highlight) HasNote() bool {
	return h.Note != nil && *h.Note != ""
}
