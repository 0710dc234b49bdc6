package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mykare/user-registration/internal/infrastructure/db/sqlite/migrations"
)

// DB wraps the SQLite handle shared by the repositories.
type DB struct {
	SqlDB *sql.DB
}

// connPragmas run on every connection the pool opens.
var connPragmas = []string{"busy_timeout(5000)", "foreign_keys(1)", "journal_mode(WAL)"}

// New opens a SQLite database at path with WAL journaling and foreign keys
// enabled.
func New(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate(ctx context.Context, logger zerolog.Logger) error {
	return migrations.Run(ctx, db.SqlDB, logger)
}

// Ping is used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

// dsn appends connPragmas to path as _pragma query parameters.
func dsn(path string) string {
	q := url.Values{"_pragma": connPragmas}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}
