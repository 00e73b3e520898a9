package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in schema_version; bump it with every schema.sql change.
const schemaVersion = 1

// ErrSchemaMismatch reports a history database written by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates the tables on a fresh database and refuses one at any
// other version. There are no migrations: the journal is disposable.
func (s *Store) initSchema(ctx context.Context) error {
	version, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	switch version {
	case 0:
		return s.createSchema(ctx)
	case schemaVersion:
		return nil
	default:
		return fmt.Errorf("%w: %s is at version %d, debloat expects %d; move it aside or set history.enabled = false",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

// storedVersion returns 0 when the database has no schema yet.
func (s *Store) storedVersion(ctx context.Context) (int, error) {
	var tables int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables); err != nil {
		return 0, fmt.Errorf("inspect history schema: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read history schema version: %w", err)
	}
	return version, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record history schema version: %w", err)
	}
	return tx.Commit()
}
