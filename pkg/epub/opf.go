package epub

import (
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Package is the subset of the OPF package document the reader needs.
type Package struct {
	XMLName  xml.Name `xml:"package"`
	Version  string   `xml:"version,attr"`
	Metadata struct {
		Title    []string `xml:"title"`
		Language []string `xml:"language"`
	} `xml:"metadata"`
	Manifest struct {
		Item []ManifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Toc                      string `xml:"toc,attr"`
		PageProgressionDirection string `xml:"page-progression-direction,attr"`
		Itemref                  []struct {
			Idref  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// ManifestItem is a single resource listed in the OPF manifest.
type ManifestItem struct {
	ID           string `xml:"id,attr"`
	Href         string `xml:"href,attr"`
	MediaType    string `xml:"media-type,attr"`
	Properties   string `xml:"properties,attr"`
	MediaOverlay string `xml:"media-overlay,attr"`
}

// Container is META-INF/container.xml.
type Container struct {
	XMLName   xml.Name `xml:"container"`
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

const opfMediaType = "application/oebps-package+xml"

func parseContainer(r io.Reader) (string, error) {
	var c Container
	if err := xml.NewDecoder(r).Decode(&c); err != nil {
		return "", errors.WithStack(err)
	}
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.FullPath != "" && (rf.MediaType == "" || rf.MediaType == opfMediaType) {
			return rf.FullPath, nil
		}
	}
	return "", errors.New("container.xml has no package rootfile")
}

// ParseOPF decodes a package document.
func ParseOPF(r io.Reader) (*Package, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pkg := &Package{}
	if err := xml.Unmarshal(b, pkg); err != nil {
		return nil, errors.WithStack(err)
	}
	return pkg, nil
}

// basePath returns the directory of the OPF file inside the archive with a
// trailing slash, or "" when the OPF is at the root. Every manifest href is
// relative to it.
func basePath(opfPath string) string {
	dir := path.Dir(opfPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir + "/"
}

// resolve joins a manifest-relative href onto base and cleans it. Fragments
// and percent-encoding are left to the caller.
func resolve(base, href string) string {
	return strings.TrimPrefix(path.Clean("/"+base+href), "/")
}

func (p *Package) title() string {
	for _, t := range p.Metadata.Title {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

func (p *Package) language() string {
	for _, l := range p.Metadata.Language {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
