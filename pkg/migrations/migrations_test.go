package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestBringUpToDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)

	group, err := BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	ms, err := Status(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, ms.Unapplied())

	// Running again is a no-op.
	group, err = BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, group.ID)

	_, err = db.ExecContext(ctx, `INSERT INTO books (id, filepath, title, sort_title, page_count) VALUES ('b', '/b.epub', 'B', 'B', 1)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO highlights (id, book_id, page_index, content) VALUES ('h', 'b', 1, 'x')`)
	require.NoError(t, err)
}

func TestRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)

	_, err := BringUpToDate(ctx, db)
	require.NoError(t, err)

	group, err := Rollback(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	var count int
	err = db.NewSelect().
		ColumnExpr("COUNT(*)").
		TableExpr("sqlite_master").
		Where("type = 'table' AND name IN ('books', 'highlights')").
		Scan(ctx, &count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
