package linkactions

type Kind string

const (
	KindNone              Kind = "none"
	KindShowHighlightMenu Kind = "show_highlight_menu"
	KindPlayAudio         Kind = "play_audio"
	KindScrollToAnchor    Kind = "scroll_to_anchor"
	KindChangePage        Kind = "change_page"
	KindPassthrough       Kind = "passthrough"
	KindOpenExternal      Kind = "open_external"
	KindClassClick        Kind = "class_click"
	KindOpenWithSystem    Kind = "open_with_system"
)

// Action is what the reader should do in response to a navigation request
// coming from a page.
type Action interface {
	Kind() Kind
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// None means the request was handled and nothing else has to happen.
type None struct{}

// ShowHighlightMenu opens the highlight menu over Rect.
type ShowHighlightMenu struct {
	Rect     Rect `json:"rect"`
	WithNote bool `json:"with_note"`
}

// PlayAudio starts the media overlay of Href at FragmentID.
type PlayAudio struct {
	Href       string `json:"href"`
	FragmentID string `json:"fragment_id"`
}

type ScrollToAnchor struct {
	Anchor string `json:"anchor"`
}

// ChangePage moves to another chapter, then scrolls to Anchor if set.
type ChangePage struct {
	Href      string `json:"href"`
	PageIndex int    `json:"page_index"`
	Anchor    string `json:"anchor,omitempty"`
}

// Passthrough lets the web view load the URL itself.
type Passthrough struct {
	URL string `json:"url"`
}

// OpenExternal shows the URL in an in-app browser.
type OpenExternal struct {
	URL string `json:"url"`
}

// ClassClick reports a tap on an element registered through a class based
// click listener.
type ClassClick struct {
	Scheme    string `json:"scheme"`
	Attribute string `json:"attribute"`
	Point     Point  `json:"point"`
}

// OpenWithSystem hands the URL to whatever app handles it.
type OpenWithSystem struct {
	URL string `json:"url"`
}

func (None) Kind() Kind              { return KindNone }
func (ShowHighlightMenu) Kind() Kind { return KindShowHighlightMenu }
func (PlayAudio) Kind() Kind         { return KindPlayAudio }
func (ScrollToAnchor) Kind() Kind    { return KindScrollToAnchor }
func (ChangePage) Kind() Kind        { return KindChangePage }
func (Passthrough) Kind() Kind       { return KindPassthrough }
func (OpenExternal) Kind() Kind      { return KindOpenExternal }
func (ClassClick) Kind() Kind        { return KindClassClick }
func (OpenWithSystem) Kind() Kind    { return KindOpenWithSystem }
