package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run summaries in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one journaled pass over the library. ListRuns fills PackCount and
// leaves NewPacks nil.
type Run struct {
	ID             int64
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	DryRun         bool
	NewPacks       []string
	PackCount      int
	Conversions    int
	Deletions      int
	StartFailures  int
	ReclaimedBytes int64
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the history database at path, creating its
// directory when missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores run and its pack names in one transaction. A dry run keeps
// its pack count but records no pack names, since its ledger was never saved.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(run.RunID) == "" {
		return errors.New("record run: run id is required")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (run_id, started_at, finished_at, dry_run, new_packs, conversions, deletions, start_failures, reclaimed_bytes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.StartedAt.UTC().Format(timeLayout),
			run.FinishedAt.UTC().Format(timeLayout),
			boolToInt(run.DryRun),
			len(run.NewPacks),
			run.Conversions,
			run.Deletions,
			run.StartFailures,
			run.ReclaimedBytes,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		packs := run.NewPacks
		if run.DryRun {
			packs = nil
		}
		for _, pack := range packs {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO run_packs (run_id, pack) VALUES (?, ?)", run.RunID, pack,
			); err != nil {
				return fmt.Errorf("insert run pack: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FindRun returns the run journaled under runID; ok is false when there is none.
func (s *Store) FindRun(ctx context.Context, runID string) (Run, bool, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

const runColumns = "id, run_id, started_at, finished_at, dry_run, new_packs, conversions, deletions, start_failures, reclaimed_bytes"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		started  string
		finished string
		dryRun   int
	)
	if err := row.Scan(&run.ID, &run.RunID, &started, &finished, &dryRun, &run.PackCount,
		&run.Conversions, &run.Deletions, &run.StartFailures, &run.ReclaimedBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.DryRun = dryRun != 0
	return run, nil
}

// PacksForRun returns the pack names recorded by runID, sorted.
func (s *Store) PacksForRun(ctx context.Context, runID string) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT pack FROM run_packs WHERE run_id = ? ORDER BY pack", runID)
	if err != nil {
		return nil, fmt.Errorf("list run packs: %w", err)
	}
	defer rows.Close()

	var packs []string
	for rows.Next() {
		var pack string
		if err := rows.Scan(&pack); err != nil {
			return nil, fmt.Errorf("scan run pack: %w", err)
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run packs: %w", err)
	}
	return packs, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
