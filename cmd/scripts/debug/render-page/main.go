package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/folio/pkg/epub"
	"github.com/shishobooks/folio/pkg/highlights"
	"github.com/shishobooks/folio/pkg/models"
)

// Renders one page of an EPUB with highlights read from a JSON file, without
// a database. The file holds an array of highlights in the API's format.
func main() {
	log := logger.New()

	var opts struct {
		Page       int    `short:"p" long:"page" default:"1" description:"1-based page to render"`
		Highlights string `short:"l" long:"highlights" description:"A JSON file with the highlights to put back"`
		Normalize  bool   `short:"n" long:"normalize" description:"Strip sentence spans from the output"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/render-page [-p page] [-l highlights.json] <path/to/file.epub>")
		os.Exit(1)
	}

	book, err := epub.Open(args[0])
	if err != nil {
		log.Err(err).Fatal("epub open error")
	}
	defer book.Close()

	markup, err := book.ChapterMarkup(opts.Page)
	if err != nil {
		log.Err(err).Fatal("chapter error")
	}

	var stored []*models.Highlight
	if opts.Highlights != "" {
		data, err := os.ReadFile(opts.Highlights)
		if err != nil {
			log.Err(err).Fatal("highlights read error")
		}
		if err := json.Unmarshal(data, &stored); err != nil {
			log.Err(err).Fatal("highlights parse error")
		}
	}

	records := make([]highlights.Record, 0, len(stored))
	for _, h := range stored {
		if h.PageIndex == 0 || h.PageIndex == opts.Page {
			records = append(records, highlights.RecordFromModel(h))
		}
	}

	recorder := &highlights.Recorder{}
	out := highlights.Reinsert(markup, records,
		highlights.WithSink(highlights.MultiSink{recorder, highlights.NewLogSink(log)}),
	)
	if opts.Normalize {
		out = highlights.RemoveSentenceSpam(out)
	}

	fmt.Println(out)
	log.Info("page rendered", logger.Data{
		"page":       opts.Page,
		"highlights": len(records),
		"misses":     len(recorder.Events()),
	})
}
