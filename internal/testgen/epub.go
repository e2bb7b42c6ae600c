package testgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// ChapterHref returns the href (relative to the OPF) of the chapter with the
// given 1-based index.
func ChapterHref(index int) string {
	return fmt.Sprintf("text/chapter%d.xhtml", index)
}

// GenerateEPUB creates a valid EPUB file at dir/filename. The package
// document lives in OEBPS/ and chapters in OEBPS/text/ so relative paths get
// exercised.
func GenerateEPUB(t *testing.T, dir, filename string, opts EPUBOptions) string {
	t.Helper()

	chapters := opts.Chapters
	if len(chapters) == 0 {
		chapters = []Chapter{{Title: "Chapter 1", Body: "<h1>Chapter 1</h1>\n<p>This is a test chapter.</p>"}}
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create EPUB file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	// mimetype must be first and uncompressed.
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("failed to create mimetype entry: %v", err)
	}
	if _, err := w.Write([]byte("application/epub+zip")); err != nil {
		t.Fatalf("failed to write mimetype: %v", err)
	}

	if !opts.SkipContainer {
		containerXML := `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
		mustWrite(t, zw, "META-INF/container.xml", containerXML)
	}

	mustWrite(t, zw, "OEBPS/content.opf", generateOPF(opts, chapters))

	for i, ch := range chapters {
		mustWrite(t, zw, "OEBPS/"+ChapterHref(i+1), generateChapter(ch))
		if opts.MediaOverlay {
			mustWrite(t, zw, fmt.Sprintf("OEBPS/audio/chapter%d.smil", i+1), generateSMIL(i+1))
		}
	}

	if opts.NavDocument {
		mustWrite(t, zw, "OEBPS/nav.xhtml", generateNav(chapters))
	} else {
		mustWrite(t, zw, "OEBPS/toc.ncx", generateNCX(chapters))
	}

	return path
}

func generateChapter(ch Chapter) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>%s</title>
</head>
<body>
%s
</body>
</html>`, escapeXML(ch.Title), ch.Body)
}

func generateOPF(opts EPUBOptions, chapters []Chapter) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package version="3.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)
	if opts.Title != "" {
		fmt.Fprintf(&buf, "    <dc:title id=\"title\">%s</dc:title>\n", escapeXML(opts.Title))
	}
	buf.WriteString("    <dc:identifier id=\"bookid\">urn:uuid:test-book-id</dc:identifier>\n")
	if !opts.OmitLanguage {
		language := opts.Language
		if language == "" {
			language = "en"
		}
		fmt.Fprintf(&buf, "    <dc:language>%s</dc:language>\n", escapeXML(language))
	}
	buf.WriteString("  </metadata>\n")

	buf.WriteString("  <manifest>\n")
	for i := range chapters {
		n := i + 1
		overlay := ""
		if opts.MediaOverlay {
			overlay = fmt.Sprintf(` media-overlay="smil%d"`, n)
			fmt.Fprintf(&buf, "    <item id=\"smil%d\" href=\"audio/chapter%d.smil\" media-type=\"application/smil+xml\"/>\n", n, n)
		}
		fmt.Fprintf(&buf, "    <item id=\"chapter%d\" href=\"%s\" media-type=\"application/xhtml+xml\"%s/>\n", n, ChapterHref(n), overlay)
	}
	if opts.NavDocument {
		buf.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	} else {
		buf.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	}
	buf.WriteString("  </manifest>\n")

	buf.WriteString("  <spine")
	if !opts.NavDocument {
		buf.WriteString(` toc="ncx"`)
	}
	if opts.PageProgression != "" {
		fmt.Fprintf(&buf, ` page-progression-direction="%s"`, opts.PageProgression)
	}
	buf.WriteString(">\n")
	for i := range chapters {
		fmt.Fprintf(&buf, "    <itemref idref=\"chapter%d\"/>\n", i+1)
	}
	buf.WriteString("  </spine>\n")
	buf.WriteString("</package>")

	return buf.String()
}

func generateNav(chapters []Chapter) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
`)
	for i, ch := range chapters {
		fmt.Fprintf(&buf, "    <li><a href=\"%s\">%s</a></li>\n", ChapterHref(i+1), escapeXML(ch.Title))
	}
	buf.WriteString("  </ol>\n</nav>\n</body>\n</html>")
	return buf.String()
}

func generateNCX(chapters []Chapter) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
`)
	for i, ch := range chapters {
		fmt.Fprintf(&buf, "    <navPoint id=\"np%d\" playOrder=\"%d\"><navLabel><text>%s</text></navLabel><content src=\"%s\"/></navPoint>\n",
			i+1, i+1, escapeXML(ch.Title), ChapterHref(i+1))
	}
	buf.WriteString("  </navMap>\n</ncx>")
	return buf.String()
}

func generateSMIL(n int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<smil xmlns="http://www.w3.org/ns/SMIL" version="3.0">
  <body>
    <par id="par1">
      <text src="../%s#p1"/>
      <audio src="chapter%d.mp3" clipBegin="0s" clipEnd="5s"/>
    </par>
  </body>
</smil>`, ChapterHref(n), n)
}

func mustWrite(t *testing.T, zw *zip.Writer, name, data string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
