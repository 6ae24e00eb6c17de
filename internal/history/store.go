package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"photosift/internal/config"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run kinds.
const (
	KindScan      = "scan"
	KindReconcile = "reconcile"
	KindCleanup   = "cleanup"
)

// Run is one recorded invocation.
type Run struct {
	ID             string
	Kind           string
	Status         string
	StartedAt      time.Time
	FinishedAt     time.Time
	FilesScanned   int
	GroupsFound    int
	FilesCopied    int
	FilesDeleted   int
	BytesReclaimed uint64
	ErrorMessage   string
}

// Outcome carries the counters recorded when a run finishes.
type Outcome struct {
	FilesScanned   int
	GroupsFound    int
	FilesCopied    int
	FilesDeleted   int
	BytesReclaimed uint64
}

// DatabaseHealth reports diagnostic information about the history database.
type DatabaseHealth struct {
	DBPath         string
	DatabaseExists bool
	RunCount       int
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records the beginning of an invocation and returns its id.
func (s *Store) StartRun(ctx context.Context, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, status, started_at) VALUES (?, ?, ?, ?)`,
		id, kind, StatusRunning, formatTime(time.Now()))
	if err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}
	return id, nil
}

// FinishRun marks the run completed with its counters.
func (s *Store) FinishRun(ctx context.Context, id string, outcome Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs
		 SET status = ?, finished_at = ?, files_scanned = ?, groups_found = ?,
		     files_copied = ?, files_deleted = ?, bytes_reclaimed = ?
		 WHERE id = ?`,
		StatusCompleted, formatTime(time.Now()),
		outcome.FilesScanned, outcome.GroupsFound, outcome.FilesCopied,
		outcome.FilesDeleted, int64(outcome.BytesReclaimed), id)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// FailRun marks the run failed with the given message.
func (s *Store) FailRun(ctx context.Context, id, message string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE id = ?`,
		StatusFailed, formatTime(time.Now()), message, id)
	if err != nil {
		return fmt.Errorf("record run failure: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, kind, status, started_at, finished_at, files_scanned,
	          groups_found, files_copied, files_deleted, bytes_reclaimed, error_message
	          FROM runs ORDER BY started_at DESC, id`
	var args []any
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

// Get returns a single run by id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, status, started_at, finished_at, files_scanned,
		 groups_found, files_copied, files_deleted, bytes_reclaimed, error_message
		 FROM runs WHERE id = ?`, id)
	if err != nil {
		return Run{}, fmt.Errorf("load run: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Run{}, fmt.Errorf("load run: %w", err)
		}
		return Run{}, fmt.Errorf("run %s not found", id)
	}
	return scanRun(rows)
}

// CheckHealth returns diagnostic information about the history database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("history database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat history database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("history database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("history database connection unavailable")
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs").Scan(&health.RunCount); err != nil {
		return health, fmt.Errorf("count runs: %w", err)
	}
	return health, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run            Run
		startedAt      string
		finishedAt     sql.NullString
		bytesReclaimed int64
	)
	if err := rows.Scan(&run.ID, &run.Kind, &run.Status, &startedAt, &finishedAt,
		&run.FilesScanned, &run.GroupsFound, &run.FilesCopied, &run.FilesDeleted,
		&bytesReclaimed, &run.ErrorMessage); err != nil {
		return Run{}, fmt.Errorf("scan run row: %w", err)
	}
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTime(finishedAt.String)
	}
	if bytesReclaimed > 0 {
		run.BytesReclaimed = uint64(bytesReclaimed)
	}
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
