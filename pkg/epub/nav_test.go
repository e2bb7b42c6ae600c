package epub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNavDocument(t *testing.T) {
	t.Parallel()
	navXML := `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
    <li><a href="chapter1.xhtml">Chapter 1</a></li>
    <li>
      <a href="part2.xhtml">Part 2</a>
      <ol>
        <li><a href="chapter2.xhtml">Chapter 2</a></li>
        <li><a href="chapter3.xhtml#section1">Chapter 3</a></li>
      </ol>
    </li>
  </ol>
</nav>
</body>
</html>`

	entries, err := parseNavDocument(strings.NewReader(navXML))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Chapter 1", entries[0].Title)
	assert.Equal(t, "chapter1.xhtml", entries[0].Href)
	assert.Empty(t, entries[0].Children)

	assert.Equal(t, "Part 2", entries[1].Title)
	assert.Equal(t, "part2.xhtml", entries[1].Href)
	require.Len(t, entries[1].Children, 2)

	assert.Equal(t, "Chapter 2", entries[1].Children[0].Title)
	assert.Equal(t, "chapter2.xhtml", entries[1].Children[0].Href)
	assert.Equal(t, "Chapter 3", entries[1].Children[1].Title)
	assert.Equal(t, "chapter3.xhtml#section1", entries[1].Children[1].Href)
}

func TestParseNavDocument_SpanWithoutLink(t *testing.T) {
	t.Parallel()
	navXML := `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
    <li><span>Part 1 (no link)</span>
      <ol>
        <li><a href="chapter1.xhtml">Chapter 1</a></li>
      </ol>
    </li>
  </ol>
</nav>
</body>
</html>`

	entries, err := parseNavDocument(strings.NewReader(navXML))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "Part 1 (no link)", entries[0].Title)
	assert.Empty(t, entries[0].Href)
	require.Len(t, entries[0].Children, 1)
}

func TestParseNCX(t *testing.T) {
	t.Parallel()
	ncxXML := `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
<navMap>
  <navPoint id="ch1" playOrder="1">
    <navLabel><text>Chapter 1</text></navLabel>
    <content src="chapter1.xhtml"/>
    <navPoint id="ch1-1" playOrder="2">
      <navLabel><text>Section 1.1</text></navLabel>
      <content src="chapter1.xhtml#s1"/>
    </navPoint>
  </navPoint>
  <navPoint id="ch2" playOrder="3">
    <navLabel><text>Chapter 2</text></navLabel>
    <content src="chapter2.xhtml"/>
  </navPoint>
</navMap>
</ncx>`

	entries, err := parseNCX(strings.NewReader(ncxXML))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Chapter 1", entries[0].Title)
	assert.Equal(t, "chapter1.xhtml", entries[0].Href)
	require.Len(t, entries[0].Children, 1)
	assert.Equal(t, "Section 1.1", entries[0].Children[0].Title)
	assert.Equal(t, "chapter1.xhtml#s1", entries[0].Children[0].Href)

	assert.Equal(t, "Chapter 2", entries[1].Title)
	assert.Equal(t, "chapter2.xhtml", entries[1].Href)
	assert.Empty(t, entries[1].Children)
}
