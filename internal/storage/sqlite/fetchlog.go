package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yegors/flightboard/internal/flights"
	"github.com/yegors/flightboard/pkg/logger"
	_ "modernc.org/sqlite"
)

// FetchRecord is one row of the fetch history
type FetchRecord struct {
	ID         int64     `json:"id"`
	Operation  string    `json:"operation"`
	Source     string    `json:"source"`
	Count      int       `json:"count"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	BatchID    string    `json:"batch_id,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
}

// FetchLog is a SQLite-backed history of flight and offer acquisitions.
// Flight records themselves are never written here.
type FetchLog struct {
	db         *sql.DB
	logger     *logger.Logger
	maxEntries int
}

// NewFetchLog opens (or creates) the history database at dbPath.
// maxEntries bounds the table size; zero keeps everything.
func NewFetchLog(dbPath string, maxEntries int, log *logger.Logger) (*FetchLog, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite fetch history",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)

	pragmas := []struct{ stmt, what string }{
		{"PRAGMA journal_mode=WAL", "journal mode"},
		{"PRAGMA synchronous=NORMAL", "synchronous mode"},
		{"PRAGMA busy_timeout=5000", "busy timeout"},
		{"PRAGMA cache_size=10000", "cache size"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %s: %w", p.what, err)
		}
	}

	if err := initDatabase(db, storageLogger); err != nil {
		db.Close()
		return nil, err
	}

	return &FetchLog{
		db:         db,
		logger:     storageLogger,
		maxEntries: maxEntries,
	}, nil
}

// Close closes the database connection
func (s *FetchLog) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initDatabase initializes the database schema
func initDatabase(db *sql.DB, log *logger.Logger) error {
	log.Info("Initializing database schema")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS fetch_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			operation TEXT NOT NULL,
			source TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			batch_id TEXT,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create fetch_history table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_fetch_history_created_at ON fetch_history(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}

	return nil
}

// RecordFetch stores one acquisition and trims the table to maxEntries
func (s *FetchLog) RecordFetch(ctx context.Context, event flights.FetchEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fetch_history
		(operation, source, count, duration_ms, error, batch_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.Operation,
		string(event.Source),
		event.Count,
		event.Duration.Milliseconds(),
		nullableString(event.Error),
		nullableString(event.BatchID),
		event.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM fetch_history WHERE id NOT IN (
				SELECT id FROM fetch_history ORDER BY id DESC LIMIT ?
			)`, s.maxEntries)
		if err != nil {
			return fmt.Errorf("failed to prune fetch history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fetch record: %w", err)
	}

	s.logger.Debug("Fetch recorded",
		logger.String("operation", event.Operation),
		logger.String("source", string(event.Source)),
		logger.Int("count", event.Count))

	return nil
}

// Recent returns the latest fetch records, newest first
func (s *FetchLog) Recent(ctx context.Context, limit int) ([]FetchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, source, count, duration_ms, error, batch_id, created_at
		FROM fetch_history
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch history: %w", err)
	}
	defer rows.Close()

	records := []FetchRecord{}
	for rows.Next() {
		var record FetchRecord
		var errText, batchID sql.NullString
		var createdAt string

		if err := rows.Scan(
			&record.ID,
			&record.Operation,
			&record.Source,
			&record.Count,
			&record.DurationMs,
			&errText,
			&batchID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}

		record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if errText.Valid {
			record.Error = errText.String
		}
		if batchID.Valid {
			record.BatchID = batchID.String
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch history: %w", err)
	}

	return records, nil
}

// Count returns the number of stored fetch records
func (s *FetchLog) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fetch_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count fetch history: %w", err)
	}
	return n, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
