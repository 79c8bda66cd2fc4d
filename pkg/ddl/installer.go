package ddl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InstallError reports which table's DDL failed. A failed install aborts
// setup; it is never partially swallowed.
type InstallError struct {
	Table string
	Err   error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("creating table %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// Installer executes the schema DDL against a live database. Because every
// statement is CREATE TABLE IF NOT EXISTS, running it twice — or from two
// processes at once — converges to the same schema.
type Installer struct {
	db  *sql.DB
	gen *Generator
}

// NewInstaller creates an Installer for the given database and options.
func NewInstaller(db *sql.DB, opts Options) *Installer {
	return &Installer{db: db, gen: NewGenerator(opts)}
}

// Generator exposes the underlying DDL generator.
func (i *Installer) Generator() *Generator {
	return i.gen
}

// EnsureSchema creates every missing table. It stops at the first failure
// and reports it as an InstallError.
func (i *Installer) EnsureSchema(ctx context.Context) error {
	stmts, err := i.gen.CreateStatements()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := i.EnsureTable(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureTable executes a single rendered statement. Exposed separately so
// callers can drive per-table progress reporting.
func (i *Installer) EnsureTable(ctx context.Context, stmt Statement) error {
	if _, err := i.db.ExecContext(ctx, stmt.SQL); err != nil {
		return &InstallError{Table: stmt.Table, Err: err}
	}
	return nil
}

// DetectServerVersion asks the connected server for its version string,
// for callers that want engine selection to match the server they are
// actually installed on.
func DetectServerVersion(ctx context.Context, db *sql.DB) (string, error) {
	var v string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&v); err != nil {
		return "", fmt.Errorf("detecting server version: %w", err)
	}
	return v, nil
}

// InstalledTables returns which of the schema's physical tables already
// exist in the current database.
func (i *Installer) InstalledTables(ctx context.Context) (map[string]bool, error) {
	stmts, err := i.gen.CreateStatements()
	if err != nil {
		return nil, err
	}

	installed := make(map[string]bool, len(stmts))
	for _, stmt := range stmts {
		var name sql.NullString
		err := i.db.QueryRowContext(ctx,
			"SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?",
			stmt.Table,
		).Scan(&name)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			installed[stmt.Table] = false
		case err != nil:
			return nil, fmt.Errorf("checking table %s: %w", stmt.Table, err)
		default:
			installed[stmt.Table] = true
		}
	}
	return installed, nil
}
