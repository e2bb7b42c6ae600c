package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// seq is the insertion order that highlights are re-applied in.
		_, err := db.Exec(`
			CREATE TABLE highlights (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id TEXT REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				page_index INTEGER NOT NULL,
				content TEXT NOT NULL,
				content_pre TEXT NOT NULL DEFAULT '',
				content_post TEXT NOT NULL DEFAULT '',
				style_kind TEXT NOT NULL DEFAULT 'yellow',
				note TEXT,
				start_offset INTEGER,
				end_offset INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_highlights_id ON highlights (id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_highlights_book_id_page_index ON highlights (book_id, page_index, seq)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS highlights`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
