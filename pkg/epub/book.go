package epub

import (
	"archive/zip"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

const (
	containerPath  = "META-INF/container.xml"
	epubMimeType   = "application/epub+zip"
	maxChapterSize = 32 << 20

	PageProgressionLTR = "ltr"
	PageProgressionRTL = "rtl"
)

var (
	ErrPageOutOfRange = errors.New("page index out of range")
	ErrNotEPUB        = errors.New("file is not an epub")
)

// SpineItem is one page of the book in reading order.
type SpineItem struct {
	ID        string
	Href      string
	Path      string
	MediaType string
	// MediaOverlay is the archive path of the SMIL document attached to the
	// item, if any.
	MediaOverlay string
	Linear       bool
}

// Book is an opened EPUB. Pages are numbered from 1 in spine order.
type Book struct {
	zr       *zip.ReadCloser
	files    map[string]*zip.File
	opfPath  string
	pkg      *Package
	spine    []SpineItem
	byPath   map[string]int
	manifest map[string]ManifestItem
}

// Validate checks that the file at filepath looks like an EPUB.
func Validate(filepath string) error {
	mtype, err := mimetype.DetectFile(filepath)
	if err != nil {
		return errors.WithStack(err)
	}
	if !mtype.Is(epubMimeType) {
		return errors.Wrapf(ErrNotEPUB, "detected %s", mtype.String())
	}
	return nil
}

// Open opens the EPUB at filepath and reads its package document.
func Open(filepath string) (*Book, error) {
	if err := Validate(filepath); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(filepath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	b := &Book{
		zr:       zr,
		files:    make(map[string]*zip.File, len(zr.File)),
		byPath:   map[string]int{},
		manifest: map[string]ManifestItem{},
	}
	for _, f := range zr.File {
		b.files[f.Name] = f
	}

	if err := b.load(); err != nil {
		zr.Close()
		return nil, err
	}
	return b, nil
}

func (b *Book) load() error {
	opfPath, err := b.findOPF()
	if err != nil {
		return err
	}
	b.opfPath = opfPath

	r, err := b.openFile(opfPath)
	if err != nil {
		return err
	}
	defer r.Close()

	pkg, err := ParseOPF(r)
	if err != nil {
		return err
	}
	b.pkg = pkg

	base := basePath(opfPath)
	for _, item := range pkg.Manifest.Item {
		b.manifest[item.ID] = item
	}

	for _, ref := range pkg.Spine.Itemref {
		item, ok := b.manifest[ref.Idref]
		if !ok {
			// Broken reference. Skip it rather than refusing the whole book.
			continue
		}
		si := SpineItem{
			ID:        item.ID,
			Href:      item.Href,
			Path:      resolve(base, unescape(item.Href)),
			MediaType: item.MediaType,
			Linear:    ref.Linear != "no",
		}
		if overlay, ok := b.manifest[item.MediaOverlay]; ok && item.MediaOverlay != "" {
			si.MediaOverlay = resolve(base, unescape(overlay.Href))
		}
		b.spine = append(b.spine, si)
		if _, seen := b.byPath[si.Path]; !seen {
			b.byPath[si.Path] = len(b.spine)
		}
	}

	if len(b.spine) == 0 {
		return errors.New("epub has an empty spine")
	}
	return nil
}

// findOPF reads the rootfile from container.xml. Some books in the wild skip
// it, in which case the first .opf in the archive is used.
func (b *Book) findOPF() (string, error) {
	if _, ok := b.files[containerPath]; ok {
		r, err := b.openFile(containerPath)
		if err != nil {
			return "", err
		}
		defer r.Close()
		return parseContainer(r)
	}
	for _, f := range b.zr.File {
		if strings.EqualFold(path.Ext(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", errors.New("no opf file found")
}

func (b *Book) openFile(name string) (io.ReadCloser, error) {
	f, ok := b.files[name]
	if !ok {
		return nil, errors.Errorf("%s not found in epub", name)
	}
	r, err := f.Open()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return r, nil
}

func (b *Book) Close() error {
	return errors.WithStack(b.zr.Close())
}

func (b *Book) Title() string {
	return b.pkg.title()
}

func (b *Book) Language() string {
	return b.pkg.language()
}

// PageProgression returns "rtl" or "ltr".
func (b *Book) PageProgression() string {
	if strings.EqualFold(b.pkg.Spine.PageProgressionDirection, PageProgressionRTL) {
		return PageProgressionRTL
	}
	return PageProgressionLTR
}

func (b *Book) PageCount() int {
	return len(b.spine)
}

// Spine returns the pages in reading order.
func (b *Book) Spine() []SpineItem {
	out := make([]SpineItem, len(b.spine))
	copy(out, b.spine)
	return out
}

// HasMediaOverlay reports whether any page has a SMIL overlay attached.
func (b *Book) HasMediaOverlay() bool {
	for _, si := range b.spine {
		if si.MediaOverlay != "" {
			return true
		}
	}
	return false
}

// PageHasMediaOverlay reports whether the given 1-based page has audio.
func (b *Book) PageHasMediaOverlay(pageIndex int) bool {
	si, err := b.page(pageIndex)
	return err == nil && si.MediaOverlay != ""
}

func (b *Book) page(pageIndex int) (SpineItem, error) {
	if pageIndex < 1 || pageIndex > len(b.spine) {
		return SpineItem{}, errors.Wrapf(ErrPageOutOfRange, "page %d of %d", pageIndex, len(b.spine))
	}
	return b.spine[pageIndex-1], nil
}

// ChapterMarkup returns the raw markup of the given 1-based page.
func (b *Book) ChapterMarkup(pageIndex int) (string, error) {
	si, err := b.page(pageIndex)
	if err != nil {
		return "", err
	}
	r, err := b.openFile(si.Path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxChapterSize+1))
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(data) > maxChapterSize {
		return "", errors.Errorf("chapter %s is larger than %d bytes", si.Path, maxChapterSize)
	}
	return string(data), nil
}

// ChapterPath returns the archive path of the given 1-based page.
func (b *Book) ChapterPath(pageIndex int) (string, error) {
	si, err := b.page(pageIndex)
	if err != nil {
		return "", err
	}
	return si.Path, nil
}

// ChapterHref returns the manifest href of the given 1-based page, relative
// to the package document.
func (b *Book) ChapterHref(pageIndex int) (string, error) {
	si, err := b.page(pageIndex)
	if err != nil {
		return "", err
	}
	return si.Href, nil
}

// FindPageByHref returns the 1-based page a link points at. href may be an
// archive path, a path relative to the package document, or any path that
// ends in a spine item's archive path (which is what a link looks like once
// the book is served from a directory). Fragments and query strings are
// ignored.
func (b *Book) FindPageByHref(href string) (int, bool) {
	href = stripFragment(href)
	href = strings.TrimPrefix(path.Clean("/"+unescape(href)), "/")
	if href == "" {
		return 0, false
	}

	if idx, ok := b.byPath[href]; ok {
		return idx, true
	}
	if idx, ok := b.byPath[resolve(basePath(b.opfPath), href)]; ok {
		return idx, true
	}
	for i, si := range b.spine {
		if strings.HasSuffix(href, "/"+si.Path) {
			return i + 1, true
		}
	}
	return 0, false
}

// TOC returns the table of contents from the EPUB 3 nav document, falling
// back to the NCX. Entries pointing into the spine get their page index set.
func (b *Book) TOC() ([]TOCEntry, error) {
	base := basePath(b.opfPath)

	var (
		entries []TOCEntry
		docPath string
		err     error
	)
	if docPath = findNavDocumentHref(b.pkg, base); docPath != "" {
		entries, err = b.parseTOCFile(docPath, parseNavDocument)
	} else if docPath = findNCXHref(b.pkg, base); docPath != "" {
		entries, err = b.parseTOCFile(docPath, parseNCX)
	}
	if err != nil {
		return nil, err
	}

	b.assignPages(entries, basePath(docPath))
	return entries, nil
}

func (b *Book) parseTOCFile(name string, parse func(io.Reader) ([]TOCEntry, error)) ([]TOCEntry, error) {
	r, err := b.openFile(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return parse(r)
}

func (b *Book) assignPages(entries []TOCEntry, docBase string) {
	for i := range entries {
		if entries[i].Href != "" {
			target := resolve(docBase, unescape(stripFragment(entries[i].Href)))
			if idx, ok := b.byPath[target]; ok {
				entries[i].PageIndex = idx
			}
		}
		b.assignPages(entries[i].Children, docBase)
	}
}

func stripFragment(href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		return href[:i]
	}
	return href
}

func unescape(href string) string {
	if u, err := url.PathUnescape(href); err == nil {
		return u
	}
	return href
}
