package books

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/folio/internal/testgen"
	"github.com/shishobooks/folio/pkg/errcodes"
	"github.com/shishobooks/folio/pkg/migrations"
	"github.com/shishobooks/folio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func generateBook(t *testing.T, dir, filename string) string {
	t.Helper()
	return testgen.GenerateEPUB(t, dir, filename, testgen.EPUBOptions{
		Title:    "Moby Dick",
		Language: "en",
		Chapters: []testgen.Chapter{
			{Title: "Loomings", Body: "<p>Call me Ishmael.</p>"},
			{Title: "The Carpet-Bag", Body: "<p>I stuffed a shirt or two.</p>"},
		},
		NavDocument: true,
	})
}

func TestService_RegisterBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	dir := t.TempDir()
	path := generateBook(t, dir, "moby-dick.epub")
	svc := NewService(db, dir)

	book, err := svc.RegisterBook(ctx, "moby-dick.epub", nil)
	require.NoError(t, err)

	assert.Equal(t, "moby-dick", book.ID)
	assert.Equal(t, path, book.Filepath)
	assert.Equal(t, "Moby Dick", book.Title)
	assert.Equal(t, "Moby Dick", book.SortTitle)
	assert.Equal(t, 2, book.PageCount)
	assert.Equal(t, models.PageProgressionLTR, book.PageProgression)
	require.NotNil(t, book.Language)
	assert.Equal(t, "en", *book.Language)
	assert.False(t, book.HasMediaOverlay)

	stored, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: pointerutil.String("moby-dick")})
	require.NoError(t, err)
	assert.Equal(t, book.Title, stored.Title)
}

func TestService_RegisterBook_CustomID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	dir := t.TempDir()
	path := generateBook(t, dir, "moby-dick.epub")
	svc := NewService(db, "")

	book, err := svc.RegisterBook(ctx, path, pointerutil.String("moby"))
	require.NoError(t, err)
	assert.Equal(t, "moby", book.ID)

	_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{Filepath: &path})
	require.NoError(t, err)
}

func TestService_RegisterBook_MediaOverlayAndRTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	dir := t.TempDir()
	path := testgen.GenerateEPUB(t, dir, "rtl.epub", testgen.EPUBOptions{
		Title:           "Right To Left",
		PageProgression: "rtl",
		MediaOverlay:    true,
		OmitLanguage:    true,
	})
	svc := NewService(db, dir)

	book, err := svc.RegisterBook(ctx, path, nil)
	require.NoError(t, err)
	assert.True(t, book.IsRTL())
	assert.True(t, book.HasMediaOverlay)
	assert.Nil(t, book.Language)
}

func TestService_RegisterBook_Duplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	dir := t.TempDir()
	generateBook(t, dir, "moby-dick.epub")
	svc := NewService(db, dir)

	_, err := svc.RegisterBook(ctx, "moby-dick.epub", nil)
	require.NoError(t, err)

	_, err = svc.RegisterBook(ctx, "moby-dick.epub", pointerutil.String("other"))
	assert.True(t, errors.Is(err, errcodes.Conflict("Book")))
}

func TestService_RegisterBook_InvalidFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	dir := t.TempDir()
	testgen.WriteFile(t, dir, "notes.epub", []byte("just some text"))
	svc := NewService(db, dir)

	_, err := svc.RegisterBook(ctx, "notes.epub", nil)
	require.Error(t, err)
	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "invalid_book", e.Code)

	_, err = svc.RegisterBook(ctx, filepath.Join(dir, "missing.epub"), nil)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "invalid_book", e.Code)
}

func TestService_RetrieveBook_NotFound(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	svc := NewService(db, "")

	_, err := svc.RetrieveBook(context.Background(), RetrieveBookOptions{ID: pointerutil.String("nope")})
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))
}

func TestService_ListBooksWithTotal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewService(db, "")

	for _, b := range []*models.Book{
		{ID: "c", Filepath: "/c.epub", Title: "Cetology", PageCount: 1},
		{ID: "a", Filepath: "/a.epub", Title: "The Ahab", PageCount: 1},
		{ID: "b", Filepath: "/b.epub", Title: "bildad", PageCount: 1},
	} {
		require.NoError(t, svc.CreateBook(ctx, b))
	}

	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Limit: pointerutil.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, books, 2)
	assert.Equal(t, "a", books[0].ID)
	assert.Equal(t, "Ahab, The", books[0].SortTitle)
	assert.Equal(t, "b", books[1].ID)

	books, err = svc.ListBooks(ctx, ListBooksOptions{Search: pointerutil.String("CET")})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "c", books[0].ID)
}

func TestService_DeleteBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewService(db, "")

	require.NoError(t, svc.CreateBook(ctx, &models.Book{ID: "moby", Filepath: "/moby.epub", Title: "Moby", PageCount: 2}))
	_, err := db.NewInsert().Model(&models.Highlight{
		ID:        "h1",
		BookID:    "moby",
		PageIndex: 1,
		Content:   "whale",
		StyleKind: models.HighlightStyleYellow,
	}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, "moby"))

	count, err := db.NewSelect().Model((*models.Highlight)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = svc.DeleteBook(ctx, "moby")
	assert.True(t, errors.Is(err, errcodes.NotFound("Book")))
}
