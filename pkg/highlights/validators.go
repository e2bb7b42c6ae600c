package highlights

type ListHighlightsQuery struct {
	Limit     int  `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset    int  `query:"offset" json:"offset,omitempty" validate:"min=0"`
	PageIndex *int `query:"page_index" json:"page_index,omitempty" validate:"omitempty,min=1"`
}

type CreateHighlightPayload struct {
	ID          *string `json:"id,omitempty" validate:"omitempty,uuid4"`
	PageIndex   int     `json:"page_index" validate:"required,min=1"`
	Content     string  `json:"content" validate:"required"`
	ContentPre  string  `json:"content_pre"`
	ContentPost string  `json:"content_post"`
	StyleKind   string  `json:"style_kind" default:"yellow" validate:"stylekind"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=10000"`
	StartOffset *int    `json:"start_offset,omitempty" validate:"omitempty,min=0"`
	EndOffset   *int    `json:"end_offset,omitempty" validate:"omitempty,min=0"`
}

// UpdateHighlightPayload only covers what a reader can change after the fact.
// The locator fields are fixed once a highlight exists.
type UpdateHighlightPayload struct {
	StyleKind *string `json:"style_kind,omitempty" validate:"omitempty,stylekind"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=10000"`
}
