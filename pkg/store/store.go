package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/forodb/forodb/pkg/schema"
)

// Store provides the query and mutation surface over the forum tables.
// Coordination is delegated entirely to the storage engine: the store
// holds no locks and keeps no in-process state beyond the handle and the
// table-name mapping.
type Store struct {
	db    *sql.DB
	names schema.TableNames
}

// New wraps an existing database handle.
func New(db *sql.DB, names schema.TableNames) *Store {
	if names == (schema.TableNames{}) {
		names = schema.DefaultNames("")
	}
	return &Store{db: db, names: names}
}

// Open connects to a MySQL-compatible server and verifies the connection.
func Open(ctx context.Context, dsn string, names schema.TableNames) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(db, names), nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Names returns the table-name mapping in effect.
func (s *Store) Names() schema.TableNames {
	return s.names
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}
