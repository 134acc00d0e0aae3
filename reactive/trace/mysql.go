package trace

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLRecorder persists records to a MySQL/MariaDB table, for a trace
// that needs to outlive a single machine (shared CI dashboard, a fleet
// of CLI runs writing to one database). Grounded on the teacher's
// store.MySQLStore connection-pool settings.
type MySQLRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewMySQLRecorder opens a connection using dsn (see
// github.com/go-sql-driver/mysql for format) and creates the records
// table if it doesn't already exist.
func NewMySQLRecorder(dsn string) (*MySQLRecorder, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("trace: opening mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("trace: pinging mysql: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS records (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			node_id INT NOT NULL,
			kind VARCHAR(32) NOT NULL,
			op VARCHAR(32) NOT NULL,
			run_id VARCHAR(64) NOT NULL DEFAULT '',
			changed BOOLEAN NOT NULL,
			err TEXT NOT NULL,
			duration_ns BIGINT NOT NULL,
			timestamp VARCHAR(64) NOT NULL,
			INDEX idx_records_node (node_id)
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("trace: creating schema: %w", err)
	}

	return &MySQLRecorder{db: db}, nil
}

func (m *MySQLRecorder) Append(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO records (node_id, kind, op, run_id, changed, err, duration_ns, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.NodeID, rec.Kind, rec.Op, rec.RunID, rec.Changed, rec.Err,
		rec.Duration.Nanoseconds(), rec.Timestamp.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("trace: inserting record: %w", err)
	}
	return nil
}

func (m *MySQLRecorder) History(ctx context.Context, nodeID int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	var rows *sql.Rows
	var err error
	if nodeID == 0 {
		rows, err = m.db.QueryContext(ctx, `SELECT seq, node_id, kind, op, run_id, changed, err, duration_ns, timestamp FROM records ORDER BY seq ASC`)
	} else {
		rows, err = m.db.QueryContext(ctx, `SELECT seq, node_id, kind, op, run_id, changed, err, duration_ns, timestamp FROM records WHERE node_id = ? ORDER BY seq ASC`, nodeID)
	}
	if err != nil {
		return nil, fmt.Errorf("trace: querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanBoolRecords(rows)
}

func (m *MySQLRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}

// scanBoolRecords mirrors scanRecords but for drivers (MySQL) that scan
// BOOLEAN columns straight into a Go bool instead of an integer.
func scanBoolRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var (
			rec        Record
			durationNS int64
			timestamp  string
		)
		if err := rows.Scan(&rec.Seq, &rec.NodeID, &rec.Kind, &rec.Op, &rec.RunID, &rec.Changed, &rec.Err, &durationNS, &timestamp); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationNS)
		if ts, err := time.Parse(timeLayout, timestamp); err == nil {
			rec.Timestamp = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
