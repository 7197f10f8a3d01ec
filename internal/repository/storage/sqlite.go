package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	st := &SQLiteStorage{Connection: conn}
	if err = st.Init(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return st, nil
}

func (that *SQLiteStorage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS entries (key TEXT PRIMARY KEY, value TEXT NOT NULL)`

	_, err := that.Connection.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Read(ctx context.Context, key string) (string, error) {
	var value string

	err := that.Connection.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("can't read %q: %w", key, err)
	}

	return value, nil
}

func (that *SQLiteStorage) Write(ctx context.Context, key, value string) error {
	query := `INSERT INTO entries (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := that.Connection.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("can't write %q: %w", key, err)
	}

	return nil
}

func (that *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := that.Connection.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("can't delete %q: %w", key, err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	return that.Connection.Close()
}
