package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/agenthands/dossier/internal/core/model"
)

// Store persists completed runs to SQLite so reports survive the process.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the run database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			created_at  DATETIME NOT NULL,
			total_items INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sections (
			run_id      TEXT NOT NULL REFERENCES runs(id),
			position    INTEGER NOT NULL,
			item_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			draft       TEXT NOT NULL,
			best_effort INTEGER NOT NULL DEFAULT 0,
			degraded    INTEGER NOT NULL DEFAULT 0,
			reason      TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveRun writes a run and its sections in one transaction. Positions
// follow the slice order, which is checklist order.
func (s *Store) SaveRun(ctx context.Context, runID string, sections []model.Section) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, total_items) VALUES (?, ?, ?)`,
		runID, time.Now().UTC(), len(sections),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, section := range sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (run_id, position, item_id, title, draft, best_effort, degraded, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, section.ItemID, section.Title, section.Draft,
			boolToInt(section.BestEffort), boolToInt(section.Degraded), section.Reason,
		); err != nil {
			return fmt.Errorf("inserting section %s: %w", section.ItemID, err)
		}
	}

	return tx.Commit()
}

// LoadSections returns the sections of a stored run in checklist order.
func (s *Store) LoadSections(ctx context.Context, runID string) ([]model.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, title, draft, best_effort, degraded, reason
		 FROM sections WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var section model.Section
		var bestEffort, degraded int
		if err := rows.Scan(&section.ItemID, &section.Title, &section.Draft, &bestEffort, &degraded, &section.Reason); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		section.BestEffort = bestEffort != 0
		section.Degraded = degraded != 0
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
