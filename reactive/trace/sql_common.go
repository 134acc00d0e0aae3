package trace

import (
	"database/sql"
	"time"
)

const timeLayout = time.RFC3339Nano

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var (
			rec        Record
			changed    int
			durationNS int64
			timestamp  string
		)
		if err := rows.Scan(&rec.Seq, &rec.NodeID, &rec.Kind, &rec.Op, &rec.RunID, &changed, &rec.Err, &durationNS, &timestamp); err != nil {
			return nil, err
		}
		rec.Changed = changed != 0
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
