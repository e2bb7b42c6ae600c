// Package testgen generates EPUB files for tests.
package testgen

import (
	"os"
	"path/filepath"
	"testing"
)

// Chapter is one spine item of a generated EPUB.
type Chapter struct {
	Title string
	// Body is placed inside <body> as is.
	Body string
}

// EPUBOptions configures the generated EPUB file.
type EPUBOptions struct {
	Title    string
	Language string
	// OmitLanguage leaves dc:language out. Otherwise Language defaults to
	// "en".
	OmitLanguage bool
	// Chapters defaults to a single short chapter.
	Chapters []Chapter
	// PageProgression is written to the spine when set ("ltr" or "rtl").
	PageProgression string
	// MediaOverlay attaches a SMIL overlay to every chapter.
	MediaOverlay bool
	// NavDocument adds an EPUB 3 nav document. Otherwise an NCX is written.
	NavDocument bool
	// SkipContainer leaves META-INF/container.xml out so the OPF has to be
	// found by scanning.
	SkipContainer bool
}

// WriteFile creates a file with the given content in the specified directory.
// Returns the full path to the created file.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// StringPtr is a helper to create a pointer to a string.
func StringPtr(s string) *string {
	return &s
}
