package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQL keeps every key in a single kv table.
type SQL struct{ db *sqlx.DB }

// NewSQL wraps an already opened database. The kv table must exist; OpenDB creates it.
func NewSQL(db *sqlx.DB) *SQL { return &SQL{db: db} }

// OpenDB opens the sqlite database at dsn and ensures the schema.
func OpenDB(dsn string) (*SQL, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	return Init(db)
}

// Init pings db and ensures the schema. db is closed when either step fails.
func Init(db *sqlx.DB) (*SQL, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQL(db), nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

// DB exposes the underlying handle.
func (s *SQL) DB() *sqlx.DB { return s.db }

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.GetContext(ctx, &v, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

const upsertKV = `
	INSERT INTO kv(key, value, updated_at)
	VALUES(?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertKV, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQL) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, upsertKV, k, v, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQL) Close() error { return s.db.Close() }
