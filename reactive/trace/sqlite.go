package trace

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists records to a single-file SQLite database.
// Grounded on the teacher's store.SQLiteStore: WAL mode, a busy
// timeout, one table, auto-migrated on open.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewSQLiteRecorder opens (and creates, if absent) the database at path.
// Use ":memory:" for an ephemeral recorder backed by the same schema.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("trace: %s: %w", pragma, err)
		}
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			node_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			op TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			changed INTEGER NOT NULL,
			err TEXT NOT NULL DEFAULT '',
			duration_ns INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("trace: creating schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_records_node ON records(node_id)"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("trace: creating index: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

func (s *SQLiteRecorder) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (node_id, kind, op, run_id, changed, err, duration_ns, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.NodeID, rec.Kind, rec.Op, rec.RunID, boolToInt(rec.Changed), rec.Err,
		rec.Duration.Nanoseconds(), rec.Timestamp.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("trace: inserting record: %w", err)
	}
	return nil
}

func (s *SQLiteRecorder) History(ctx context.Context, nodeID int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	var rows *sql.Rows
	var err error
	if nodeID == 0 {
		rows, err = s.db.QueryContext(ctx, `SELECT seq, node_id, kind, op, run_id, changed, err, duration_ns, timestamp FROM records ORDER BY seq ASC`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT seq, node_id, kind, op, run_id, changed, err, duration_ns, timestamp FROM records WHERE node_id = ? ORDER BY seq ASC`, nodeID)
	}
	if err != nil {
		return nil, fmt.Errorf("trace: querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

func (s *SQLiteRecorder) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
