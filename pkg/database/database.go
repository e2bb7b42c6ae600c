package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		qh.log.Err(event.Err).Warn(event.Query, data)
		return
	}
	qh.log.Debug(event.Query, data)
}

// New opens the SQLite database. All access goes through a single connection,
// which keeps writers from tripping over each other and lets the pragmas
// below stick.
func New(cfg *config.Config) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	attempts := cfg.DatabaseConnectRetryCount
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		_, err = db.Exec("SELECT 1")
		if err == nil {
			break
		}
		time.Sleep(cfg.DatabaseConnectRetryDelay)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// WAL lets readers through while a write is in progress. In-memory
	// databases silently ignore it.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	if _, err := db.Exec("PRAGMA busy_timeout=?", cfg.DatabaseBusyTimeout.Milliseconds()); err != nil {
		return nil, errors.Wrap(err, "failed to set busy_timeout")
	}

	// Highlights are deleted along with their book.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, errors.Wrap(err, "failed to enable foreign keys")
	}

	return db, nil
}
