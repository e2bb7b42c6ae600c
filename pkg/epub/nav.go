package epub

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// TOCEntry is one entry of the book's table of contents. PageIndex is 0 when
// the entry doesn't point at a spine item.
type TOCEntry struct {
	Title     string     `json:"title"`
	Href      string     `json:"href,omitempty"`
	PageIndex int        `json:"page_index,omitempty"`
	Children  []TOCEntry `json:"children,omitempty"`
}

// NavHTML represents the EPUB 3 navigation document structure.
type NavHTML struct {
	XMLName xml.Name `xml:"html"`
	Body    struct {
		Nav []NavElement `xml:"nav"`
	} `xml:"body"`
}

// NavElement represents a nav element in the navigation document.
type NavElement struct {
	Type string `xml:"type,attr"`
	OL   *NavOL `xml:"ol"`
}

type NavOL struct {
	Items []NavLI `xml:"li"`
}

type NavLI struct {
	A        *NavLink `xml:"a"`
	Span     *NavSpan `xml:"span"`
	Children *NavOL   `xml:"ol"`
}

type NavLink struct {
	Href string `xml:"href,attr"`
	Text string `xml:",chardata"`
}

// NavSpan is a heading without a link.
type NavSpan struct {
	Text string `xml:",chardata"`
}

func parseNavDocument(r io.Reader) ([]TOCEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var nav NavHTML
	if err := xml.Unmarshal(data, &nav); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, n := range nav.Body.Nav {
		if n.Type == "toc" && n.OL != nil {
			return parseNavOL(n.OL), nil
		}
	}

	return nil, nil
}

func parseNavOL(ol *NavOL) []TOCEntry {
	if ol == nil {
		return nil
	}

	entries := make([]TOCEntry, 0, len(ol.Items))
	for _, li := range ol.Items {
		entry := TOCEntry{}

		if li.A != nil {
			entry.Title = strings.TrimSpace(li.A.Text)
			entry.Href = li.A.Href
		} else if li.Span != nil {
			entry.Title = strings.TrimSpace(li.Span.Text)
		}

		if entry.Title == "" {
			continue
		}

		if li.Children != nil {
			entry.Children = parseNavOL(li.Children)
		}

		entries = append(entries, entry)
	}

	return entries
}

// NCX represents the EPUB 2 NCX structure.
type NCX struct {
	XMLName xml.Name `xml:"ncx"`
	NavMap  struct {
		NavPoints []NCXNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type NCXNavPoint struct {
	ID       string `xml:"id,attr"`
	NavLabel struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []NCXNavPoint `xml:"navPoint"`
}

func parseNCX(r io.Reader) ([]TOCEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var ncx NCX
	if err := xml.Unmarshal(data, &ncx); err != nil {
		return nil, errors.WithStack(err)
	}

	return parseNCXNavPoints(ncx.NavMap.NavPoints), nil
}

func parseNCXNavPoints(navPoints []NCXNavPoint) []TOCEntry {
	entries := make([]TOCEntry, 0, len(navPoints))
	for _, np := range navPoints {
		title := strings.TrimSpace(np.NavLabel.Text)
		if title == "" {
			continue
		}

		entry := TOCEntry{
			Title: title,
			Href:  np.Content.Src,
		}
		if len(np.Children) > 0 {
			entry.Children = parseNCXNavPoints(np.Children)
		}

		entries = append(entries, entry)
	}
	return entries
}

// findNavDocumentHref returns the archive path of the EPUB 3 nav document, or
// "" when the package doesn't have one.
func findNavDocumentHref(pkg *Package, base string) string {
	for _, item := range pkg.Manifest.Item {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "nav" {
				return resolve(base, item.Href)
			}
		}
	}
	return ""
}

// findNCXHref returns the archive path of the NCX named by the spine, or "".
func findNCXHref(pkg *Package, base string) string {
	ncxID := pkg.Spine.Toc
	if ncxID == "" {
		return ""
	}
	for _, item := range pkg.Manifest.Item {
		if item.ID == ncxID {
			return resolve(base, item.Href)
		}
	}
	return ""
}
