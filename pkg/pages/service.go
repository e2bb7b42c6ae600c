package pages

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/books"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/shishobooks/folio/pkg/epub"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/highlights"
	"github.com/uptrace/bun"
)

type RenderOptions struct {
	BookID    string
	PageIndex int
	Session   Session
}

// RenderedPage is a chapter ready for the reader web view.
type RenderedPage struct {
	HTML      string                 `json:"-"`
	BookID    string                 `json:"book_id"`
	PageIndex int                    `json:"page_index"`
	PageCount int                    `json:"page_count"`
	Misses    []highlights.MissEvent `json:"misses"`
}

type Service struct {
	bookService      *books.Service
	highlightService *highlights.Service
	styles           highlights.Styles
	logMisses        bool
}

func NewService(db *bun.DB, cfg *config.Config) *Service {
	return &Service{
		bookService:      books.NewService(db, cfg.LibraryDir),
		highlightService: highlights.NewService(db),
		styles:           highlights.DefaultStylesWith(cfg.HighlightStyleClasses),
		logMisses:        cfg.LogHighlightMisses,
	}
}

// Render loads a chapter, puts the stored highlights back into it and
// decorates it for the given session. Highlights that can't be placed are
// left out of the markup and returned as misses.
func (svc *Service) Render(ctx context.Context, opts RenderOptions) (*RenderedPage, error) {
	log := logger.FromContext(ctx)

	book, err := svc.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{ID: &opts.BookID})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	e, err := svc.bookService.OpenEPUB(book)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer e.Close()

	markup, err := e.ChapterMarkup(opts.PageIndex)
	if err != nil {
		if errors.Is(err, epub.ErrPageOutOfRange) {
			return nil, errcodes.NotFound("Page")
		}
		return nil, errors.WithStack(err)
	}

	stored, err := svc.highlightService.Lookup(ctx, book.ID, opts.PageIndex)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	recorder := &highlights.Recorder{}
	sinks := highlights.MultiSink{recorder}
	if svc.logMisses {
		sinks = append(sinks, highlights.NewLogSink(log))
	}

	patched := highlights.Reinsert(markup, highlights.RecordsFromModels(stored),
		highlights.WithSink(sinks),
		highlights.WithStyles(svc.styles),
	)

	session := opts.Session
	session.BookHasAudio = book.HasMediaOverlay
	if book.IsRTL() {
		session.Direction = book.PageProgression
	}

	misses := recorder.Events()
	if len(misses) > 0 {
		log.Debug("rendered page with missing highlights", logger.Data{
			"book_id":    book.ID,
			"page_index": opts.PageIndex,
			"highlights": len(stored),
			"misses":     len(misses),
		})
	}

	return &RenderedPage{
		HTML:      Decorate(patched, session),
		BookID:    book.ID,
		PageIndex: opts.PageIndex,
		PageCount: book.PageCount,
		Misses:    misses,
	}, nil
}
