package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// InitPostgres opens dsn, checks the connection and creates the session table.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// SQLStorage keeps session values in the session_kv table.
type SQLStorage struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	// Timeout bounds each statement; the Storage port has no context of its own.
	Timeout time.Duration
}

// NewSQLStorage creates a SQLStorage over db with a 5s statement timeout.
func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{DB: db, Timeout: 5 * time.Second}
}

func (s *SQLStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.Timeout)
}

func (s *SQLStorage) Get(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStorage) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO session_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM session_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Clear() error {
	ctx, cancel := s.ctx()
	defer cancel()

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM session_kv`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
