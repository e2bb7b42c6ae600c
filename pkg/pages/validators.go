package pages

// RenderPageQuery overrides the default session for a single render.
type RenderPageQuery struct {
	Font              *string `query:"font" json:"font,omitempty" validate:"omitempty,oneof=andada lato lora raleway"`
	Size              *int    `query:"size" json:"size,omitempty" validate:"omitempty,min=0,max=4"`
	NightMode         *bool   `query:"night_mode" json:"night_mode,omitempty"`
	MediaOverlayStyle *int    `query:"media_overlay_style" json:"media_overlay_style,omitempty" validate:"omitempty,min=0,max=2"`
	TTS               *bool   `query:"tts" json:"tts,omitempty"`
	OverlayColor      *string `query:"overlay_color" json:"overlay_color,omitempty" validate:"omitempty,csscolor"`
	OverlayColorLight *string `query:"overlay_color_light" json:"overlay_color_light,omitempty" validate:"omitempty,csscolor"`
}

func (q RenderPageQuery) apply(s Session) Session {
	if q.Font != nil {
		s.Font = *q.Font
	}
	if q.Size != nil {
		s.FontSize = *q.Size
	}
	if q.NightMode != nil {
		s.NightMode = *q.NightMode
	}
	if q.MediaOverlayStyle != nil {
		s.MediaOverlayStyle = *q.MediaOverlayStyle
	}
	if q.TTS != nil {
		s.EnableTTS = *q.TTS
	}
	if q.OverlayColor != nil {
		s.MediaOverlayColor = *q.OverlayColor
	}
	if q.OverlayColorLight != nil {
		s.MediaOverlayColorLight = *q.OverlayColorLight
	}
	return s
}
