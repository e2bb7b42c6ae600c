package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/epub"
)

func main() {
	log := logger.New()

	var opts struct {
		TOC bool `short:"t" long:"toc" description:"Print the table of contents"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-epub [--toc] <path/to/file.epub>")
		os.Exit(1)
	}

	book, err := epub.Open(args[0])
	if err != nil {
		log.Err(err).Fatal("epub open error")
	}
	defer book.Close()

	fmt.Printf("Title: %s\nLanguage: %s\nPage Progression: %s\nHas Media Overlay: %v\nPages: %d\n",
		book.Title(), book.Language(), book.PageProgression(), book.HasMediaOverlay(), book.PageCount())
	for i, si := range book.Spine() {
		fmt.Printf("  %3d  %s  (%s)\n", i+1, si.Href, si.Path)
	}

	if opts.TOC {
		toc, err := book.TOC()
		if err != nil {
			log.Err(err).Fatal("toc error")
		}
		fmt.Println("Table of Contents:")
		printTOC(toc, 1)
	}
}

func printTOC(entries []epub.TOCEntry, depth int) {
	for _, entry := range entries {
		fmt.Printf("%s%s -> page %d (%s)\n", strings.Repeat("  ", depth), entry.Title, entry.PageIndex, entry.Href)
		printTOC(entry.Children, depth+1)
	}
}
