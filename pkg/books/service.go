package books

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/epub"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/shishobooks/folio/pkg/sortname"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID       *string
	Filepath *string
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	Search *string

	includeTotal bool
}

type Service struct {
	db         *bun.DB
	libraryDir string
}

// NewService returns a book service. Relative file paths are resolved
// against libraryDir.
func NewService(db *bun.DB, libraryDir string) *Service {
	return &Service{db: db, libraryDir: libraryDir}
}

// ResolvePath makes path absolute, treating relative paths as relative to the
// library directory.
func (svc *Service) ResolvePath(path string) string {
	if filepath.IsAbs(path) || svc.libraryDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(svc.libraryDir, path)
}

// RegisterBook opens the EPUB at path and stores it. The ID defaults to the
// file name without its extension.
func (svc *Service) RegisterBook(ctx context.Context, path string, id *string) (*models.Book, error) {
	path = svc.ResolvePath(path)

	e, err := epub.Open(path)
	if err != nil {
		return nil, errcodes.InvalidBook(errors.Cause(err).Error())
	}
	defer e.Close()

	book := &models.Book{
		ID:              models.BookIDFromFilepath(path),
		Filepath:        path,
		Title:           e.Title(),
		PageCount:       e.PageCount(),
		PageProgression: e.PageProgression(),
		HasMediaOverlay: e.HasMediaOverlay(),
	}
	if id != nil && *id != "" {
		book.ID = *id
	}
	if book.Title == "" {
		book.Title = book.ID
	}
	if lang := e.Language(); lang != "" {
		book.Language = &lang
	}

	if err := svc.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	if book.PageProgression == "" {
		book.PageProgression = models.PageProgressionLTR
	}
	if book.SortTitle == "" {
		language := ""
		if book.Language != nil {
			language = *book.Language
		}
		book.SortTitle = sortname.ForTitle(book.Title, language)
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errcodes.Conflict("Book")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.Filepath != nil {
		q = q.Where("b.filepath = ?", *opts.Filepath)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		OrderExpr("b.sort_title COLLATE NOCASE ASC").
		Order("b.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		search := "%" + strings.ToLower(*opts.Search) + "%"
		q = q.Where("LOWER(b.title) LIKE ? OR LOWER(b.id) LIKE ?", search, search)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// DeleteBook removes a book along with its highlights. The file itself is
// left alone.
func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Highlight)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
}

// OpenEPUB opens the file behind a stored book. The caller closes it.
func (svc *Service) OpenEPUB(book *models.Book) (*epub.Book, error) {
	e, err := epub.Open(book.Filepath)
	if err != nil {
		return nil, err
	}
	return e, nil
}
