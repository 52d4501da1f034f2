package store

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"dayplan-cli/internal/model"
)

// AppendEvent records one mutation in the append-only log. The log is
// forensic only; nothing replays it.
func (s Store) AppendEvent(ctx context.Context, op, dayKey string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw := []byte("null")
	if payload != nil {
		if raw, err = json.Marshal(payload); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO events(id, ts_unixms, op, day_key, payload_json) VALUES(?, ?, ?, ?, ?)`,
		newRandomID("ev"), now.UnixMilli(), op, dayKey, string(raw))
	return err
}

// ReadEvents returns the most recent events, oldest first within the window.
// limit <= 0 returns everything.
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	// rowid breaks ties between events in the same millisecond.
	q := `SELECT id, ts_unixms, op, day_key, payload_json FROM events ORDER BY ts_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var ms int64
		var raw string
		if err := rows.Scan(&ev.ID, &ms, &ev.Op, &ev.DayKey, &raw); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		if raw != "" && raw != "null" {
			var payload any
			if err := json.Unmarshal([]byte(raw), &payload); err == nil {
				ev.Payload = payload
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
