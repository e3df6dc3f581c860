package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	zap.L().Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			total       INTEGER,
			succeeded   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON report_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS section_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL,
			timestamp   INTEGER NOT NULL,
			section     TEXT NOT NULL,
			ok          INTEGER NOT NULL,
			error_kind  TEXT,
			error       TEXT,
			artifacts   TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_run ON section_results(run_id)`,

		`CREATE TABLE IF NOT EXISTS indicator_points (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    INTEGER NOT NULL,
			section   TEXT NOT NULL,
			name      TEXT NOT NULL,
			date      TEXT NOT NULL,
			value     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_name ON indicator_points(name, date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) BeginRun(startedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO report_runs (started_at) VALUES (?)`, startedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRecorder) RecordSection(rec *SectionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO section_results
		(run_id, timestamp, section, ok, error_kind, error, artifacts, duration_ms)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.RunID, time.Now().Unix(), rec.Section, boolInt(rec.OK),
		rec.ErrorKind, rec.Error, strings.Join(rec.Artifacts, "\n"), rec.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordIndicators(runID int64, points []IndicatorRecord) error {
	if len(points) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO indicator_points (run_id, section, name, date, value) VALUES (?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, p := range points {
		if _, err := stmt.Exec(runID, p.Section, p.Name, p.Date.Format("2006-01-02"), p.Value); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) FinishRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE report_runs SET finished_at = ?, total = ?, succeeded = ? WHERE id = ?`,
		run.FinishedAt.Unix(), run.Total, run.Succeeded, run.ID)
	return err
}

// LastRun returns the most recent finished run and its section outcomes.
func (r *SQLiteRecorder) LastRun() (*RunRecord, []SectionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := &RunRecord{}
	var started, finished int64
	err := r.db.QueryRow(`SELECT id, started_at, finished_at, total, succeeded FROM report_runs
		WHERE finished_at IS NOT NULL ORDER BY id DESC LIMIT 1`).
		Scan(&run.ID, &started, &finished, &run.Total, &run.Succeeded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNoRuns
	}
	if err != nil {
		return nil, nil, err
	}
	run.StartedAt = time.Unix(started, 0)
	run.FinishedAt = time.Unix(finished, 0)

	rows, err := r.db.Query(`SELECT section, ok, error_kind, error, artifacts, duration_ms
		FROM section_results WHERE run_id = ? ORDER BY id`, run.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var sections []SectionRecord
	for rows.Next() {
		rec := SectionRecord{RunID: run.ID}
		var ok int
		var artifacts string
		var ms int64
		if err := rows.Scan(&rec.Section, &ok, &rec.ErrorKind, &rec.Error, &artifacts, &ms); err != nil {
			return nil, nil, err
		}
		rec.OK = ok == 1
		if artifacts != "" {
			rec.Artifacts = strings.Split(artifacts, "\n")
		}
		rec.Duration = time.Duration(ms) * time.Millisecond
		sections = append(sections, rec)
	}
	return run, sections, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	zap.L().Info("closing sqlite recorder")
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
