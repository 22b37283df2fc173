package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const uploadsSchema = `
	CREATE TABLE IF NOT EXISTS uploads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		file_name TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 0,
		elapsed_ms REAL NOT NULL DEFAULT 0,
		report_json BLOB,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(uploadsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return db, nil
}

// Entry is one recorded upload. ReportJSON is set only for cdr runs that
// returned a body.
type Entry struct {
	ID         int64
	Target     string
	FileName   string
	SizeBytes  int64
	Outcome    string
	StatusCode int
	ElapsedMs  float64
	ReportJSON []byte
	CreatedAt  time.Time
}

type Store interface {
	Add(ctx context.Context, e Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	LastReport(ctx context.Context) ([]byte, error)
}

type uploadStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &uploadStore{db: db}, nil
}

func (s *uploadStore) Add(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO uploads (
			target, file_name, size_bytes, outcome, status_code, elapsed_ms, report_json
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		e.Target,
		e.FileName,
		e.SizeBytes,
		e.Outcome,
		e.StatusCode,
		e.ElapsedMs,
		e.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

func (s *uploadStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, target, file_name, size_bytes, outcome, status_code, elapsed_ms, created_at
		FROM uploads
		ORDER BY id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.ID, &e.Target, &e.FileName, &e.SizeBytes,
			&e.Outcome, &e.StatusCode, &e.ElapsedMs, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan upload row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastReport returns the report body of the most recent upload that stored
// one, or nil when no report has been recorded yet.
func (s *uploadStore) LastReport(ctx context.Context) ([]byte, error) {
	query := `
		SELECT report_json
		FROM uploads
		WHERE report_json IS NOT NULL
		ORDER BY id DESC
		LIMIT 1`

	var report []byte
	err := s.db.QueryRowContext(ctx, query).Scan(&report)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last report: %w", err)
	}
	return report, nil
}
