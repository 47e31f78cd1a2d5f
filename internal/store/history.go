// Package store keeps a SQLite history of solved problems.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nondiv/internal/logging"
	"nondiv/internal/problem"
	"nondiv/internal/subset"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is a recorded solution summary.
type Run struct {
	ID         string        `json:"id"`
	Name       string        `json:"name,omitempty"`
	K          int           `json:"k"`
	N          int           `json:"n"`
	Size       int           `json:"size"`
	Duplicates int           `json:"duplicates"`
	Counts     subset.Counts `json:"counts"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Store is the run history database.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.Get(logging.CategoryStore).Debug("failed to set busy_timeout", zap.Error(err))
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Get(logging.CategoryStore).Debug("history store opened", zap.String("path", path))
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		k INTEGER NOT NULL,
		n INTEGER NOT NULL,
		size INTEGER NOT NULL,
		duplicates INTEGER NOT NULL DEFAULT 0,
		counts TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// Record stores sol under a fresh run ID.
func (s *Store) Record(ctx context.Context, sol problem.Solution) (Run, error) {
	run := Run{
		ID:         uuid.New().String(),
		Name:       sol.Problem.Name,
		K:          sol.Problem.K,
		N:          len(sol.Problem.Elements),
		Size:       sol.Size,
		Duplicates: len(sol.Duplicates),
		Counts:     sol.Counts,
		CreatedAt:  s.now().UTC(),
	}

	counts, err := encodeCounts(run.Counts)
	if err != nil {
		return Run{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, k, n, size, duplicates, counts, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.K, run.N, run.Size, run.Duplicates, counts, run.CreatedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}

	logging.Get(logging.CategoryStore).Debug("run recorded",
		zap.String("id", run.ID),
		zap.Int("k", run.K),
		zap.Int("size", run.Size))
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, k, n, size, duplicates, counts, created_at FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
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
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, k, n, size, duplicates, counts, created_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run     Run
		counts  string
		created int64
	)
	if err := row.Scan(&run.ID, &run.Name, &run.K, &run.N, &run.Size, &run.Duplicates, &counts, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	decoded, err := decodeCounts(counts, run.K)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.Counts = decoded
	run.CreatedAt = time.Unix(0, created).UTC()
	return run, nil
}

// encodeCounts stores only non-empty buckets so large moduli stay small.
func encodeCounts(counts subset.Counts) (string, error) {
	sparse := make(map[int]int)
	for r, n := range counts {
		if n != 0 {
			sparse[r] = n
		}
	}
	data, err := json.Marshal(sparse)
	if err != nil {
		return "", fmt.Errorf("failed to encode counts: %w", err)
	}
	return string(data), nil
}

func decodeCounts(data string, k int) (subset.Counts, error) {
	var sparse map[int]int
	if err := json.Unmarshal([]byte(data), &sparse); err != nil {
		return nil, fmt.Errorf("failed to decode counts: %w", err)
	}
	counts := make(subset.Counts, k)
	for r, n := range sparse {
		if r < 0 || r >= k {
			return nil, fmt.Errorf("failed to decode counts: remainder %d out of range for k=%d", r, k)
		}
		counts[r] = n
	}
	return counts, nil
}
