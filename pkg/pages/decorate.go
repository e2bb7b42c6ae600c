package pages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/folio/pkg/models"
	"golang.org/x/net/html"
)

// Decorate prepares chapter markup for the reader web view. The root <html>
// element gets the session's reader classes and the bridge script, the
// stylesheet and the startup calls go at the end of <head>. Only those two
// spots change; everything else is passed through byte for byte.
func Decorate(markup string, s Session) string {
	p := scan(markup)
	head := headContent(s)

	var edits []edit
	if p.htmlStart >= 0 {
		edits = append(edits, edit{
			start: p.htmlStart,
			end:   p.htmlEnd,
			text:  htmlStartTag(p.htmlAttrs, s),
		})
	}

	switch {
	case p.headClose >= 0:
		edits = append(edits, edit{start: p.headClose, end: p.headClose, text: head})
	case p.headOpenEnd >= 0:
		edits = append(edits, edit{start: p.headOpenEnd, end: p.headOpenEnd, text: head})
	case p.htmlStart >= 0:
		edits = append(edits, edit{start: p.htmlEnd, end: p.htmlEnd, text: "<head>" + head + "</head>"})
	default:
		edits = append(edits, edit{start: 0, end: 0, text: "<head>" + head + "</head>"})
	}

	return apply(markup, edits)
}

type insertionPoints struct {
	htmlStart   int
	htmlEnd     int
	htmlAttrs   []html.Attribute
	headOpenEnd int
	headClose   int
}

// scan finds the root start tag and the end of the head. It stops at </head>
// or at the first <body>.
func scan(markup string) insertionPoints {
	p := insertionPoints{htmlStart: -1, htmlEnd: -1, headOpenEnd: -1, headClose: -1}

	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return p
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "html":
				if p.htmlStart < 0 {
					p.htmlStart, p.htmlEnd = start, offset
					p.htmlAttrs = readAttrs(z, hasAttr)
				}
			case "head":
				if p.headOpenEnd < 0 {
					p.headOpenEnd = offset
				}
			case "body":
				return p
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "head" {
				p.headClose = start
				return p
			}
		}
	}
}

func readAttrs(z *html.Tokenizer, hasAttr bool) []html.Attribute {
	var attrs []html.Attribute
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
	}
	return attrs
}

// htmlStartTag rebuilds the root start tag with the reader classes in front
// of the ones the book already sets.
func htmlStartTag(attrs []html.Attribute, s Session) string {
	classes := s.HTMLClasses()
	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		seen[c] = true
	}

	hasClass, hasDir := false, false
	for i, a := range attrs {
		switch a.Key {
		case "class":
			hasClass = true
			merged := classes
			for _, c := range strings.Fields(a.Val) {
				if !seen[c] {
					seen[c] = true
					merged = append(merged, c)
				}
			}
			attrs[i].Val = strings.Join(merged, " ")
		case "dir":
			hasDir = true
		}
	}
	if !hasClass {
		attrs = append([]html.Attribute{{Key: "class", Val: strings.Join(classes, " ")}}, attrs...)
	}
	if !hasDir && s.Direction == models.PageProgressionRTL {
		attrs = append(attrs, html.Attribute{Key: "dir", Val: models.PageProgressionRTL})
	}

	var b strings.Builder
	b.WriteString("<html")
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func headContent(s Session) string {
	var b strings.Builder
	if s.StylesheetURL != "" {
		fmt.Fprintf(&b, `<link rel="stylesheet" type="text/css" href="%s"/>`, html.EscapeString(s.StylesheetURL))
	}
	if s.BridgeScriptURL != "" {
		fmt.Fprintf(&b, `<script type="text/javascript" src="%s"></script>`, html.EscapeString(s.BridgeScriptURL))
	}
	if script := startupScript(s); script != "" {
		b.WriteString(`<script type="text/javascript">`)
		b.WriteString(script)
		b.WriteString(`</script>`)
	}
	return b.String()
}

// startupScript returns the bridge calls the page makes on load. Calls that
// touch the body wait for the document to be parsed.
func startupScript(s Session) string {
	var lines []string
	if s.MediaOverlayColor != "" || s.MediaOverlayColorLight != "" {
		lines = append(lines, fmt.Sprintf("setMediaOverlayStyleColors(%s, %s);",
			jsString(s.MediaOverlayColor), jsString(s.MediaOverlayColorLight)))
	}

	var onLoad []string
	for _, l := range s.ClickListeners {
		if l.SchemeName == "" || l.QuerySelector == "" {
			continue
		}
		onLoad = append(onLoad, fmt.Sprintf("addClassBasedOnClickListener(%s, %s, %s, %s);",
			jsString(l.SchemeName), jsString(l.QuerySelector), jsString(l.AttributeName),
			jsString(fmt.Sprintf("%t", l.SelectAll))))
	}
	if s.ShouldWrapSentences() {
		onLoad = append(onLoad, "wrappingSentencesWithinPTags();")
	}
	if len(onLoad) > 0 {
		lines = append(lines, `document.addEventListener("DOMContentLoaded", function() {`)
		lines = append(lines, onLoad...)
		lines = append(lines, "});")
	}

	return strings.Join(lines, "\n")
}

// jsString quotes s as a JavaScript string literal that is safe inside a
// <script> element.
func jsString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return strings.ReplaceAll(string(data), "</", `<\/`)
}

type edit struct {
	start int
	end   int
	text  string
}

func apply(s string, edits []edit) string {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, e := range edits {
		if e.start < last {
			continue
		}
		b.WriteString(s[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(s[last:])
	return b.String()
}
