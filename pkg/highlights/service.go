package highlights

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/htmlutil"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveHighlightOptions struct {
	ID     *string
	BookID *string
}

type ListHighlightsOptions struct {
	Limit     *int
	Offset    *int
	BookID    *string
	PageIndex *int

	includeTotal bool
}

type UpdateHighlightOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Lookup returns every highlight stored for a page, in the order they were
// created. Re-insertion applies them in exactly this order.
func (svc *Service) Lookup(ctx context.Context, bookID string, pageIndex int) ([]*models.Highlight, error) {
	var highlights []*models.Highlight
	err := svc.db.
		NewSelect().
		Model(&highlights).
		Where("h.book_id = ?", bookID).
		Where("h.page_index = ?", pageIndex).
		Order("h.seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return highlights, nil
}

func (svc *Service) CreateHighlight(ctx context.Context, highlight *models.Highlight) error {
	if highlight.ID == "" {
		highlight.ID = uuid.NewString()
	}
	if highlight.StyleKind == "" {
		highlight.StyleKind = models.HighlightStyleYellow
	}
	now := time.Now()
	if highlight.CreatedAt.IsZero() {
		highlight.CreatedAt = now
	}
	highlight.UpdatedAt = highlight.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(highlight).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return errcodes.Conflict("Highlight")
		}
		return errors.WithStack(err)
	}
	fillText(highlight)
	return nil
}

func (svc *Service) RetrieveHighlight(ctx context.Context, opts RetrieveHighlightOptions) (*models.Highlight, error) {
	highlight := &models.Highlight{}

	q := svc.db.
		NewSelect().
		Model(highlight)

	if opts.ID != nil {
		q = q.Where("h.id = ?", *opts.ID)
	}
	if opts.BookID != nil {
		q = q.Where("h.book_id = ?", *opts.BookID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Highlight")
		}
		return nil, errors.WithStack(err)
	}

	fillText(highlight)
	return highlight, nil
}

func (svc *Service) ListHighlights(ctx context.Context, opts ListHighlightsOptions) ([]*models.Highlight, error) {
	h, _, err := svc.listHighlightsWithTotal(ctx, opts)
	return h, errors.WithStack(err)
}

func (svc *Service) ListHighlightsWithTotal(ctx context.Context, opts ListHighlightsOptions) ([]*models.Highlight, int, error) {
	opts.includeTotal = true
	return svc.listHighlightsWithTotal(ctx, opts)
}

func (svc *Service) listHighlightsWithTotal(ctx context.Context, opts ListHighlightsOptions) ([]*models.Highlight, int, error) {
	var highlights []*models.Highlight
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&highlights).
		Order("h.page_index ASC", "h.seq ASC")

	if opts.BookID != nil {
		q = q.Where("h.book_id = ?", *opts.BookID)
	}
	if opts.PageIndex != nil {
		q = q.Where("h.page_index = ?", *opts.PageIndex)
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

	fillText(highlights...)
	return highlights, total, nil
}

// UpdateHighlight writes the given columns. Updating never changes seq, so a
// highlight keeps its place in the re-insertion order.
func (svc *Service) UpdateHighlight(ctx context.Context, highlight *models.Highlight, opts UpdateHighlightOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	highlight.UpdatedAt = time.Now()
	columns := make([]string, 0, len(opts.Columns)+1)
	columns = append(columns, opts.Columns...)
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(highlight).
		Column(columns...).
		Where("id = ?", highlight.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Highlight")
	}
	return nil
}

func (svc *Service) DeleteHighlight(ctx context.Context, id string) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Highlight)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Highlight")
	}
	return nil
}

// DeleteHighlightsForBook removes every highlight of a book and returns how
// many were removed.
func (svc *Service) DeleteHighlightsForBook(ctx context.Context, bookID string) (int, error) {
	res, err := svc.db.
		NewDelete().
		Model((*models.Highlight)(nil)).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return int(n), errors.WithStack(err)
}

// BookExists reports whether a book with the given ID is registered.
func (svc *Service) BookExists(ctx context.Context, bookID string) (bool, error) {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Where("b.id = ?", bookID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func fillText(highlights ...*models.Highlight) {
	for _, h := range highlights {
		h.Text = htmlutil.StripTags(h.Content)
	}
}
