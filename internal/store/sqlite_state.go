package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"dayplan-cli/internal/model"
)

const sqliteFileName = "index.sqlite"

const metaCarriedOverDay = "carried_over_day"

const schemaVersion = "1"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when the CLI and TUI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS forests (
			day_key TEXT NOT NULL,
			list_id TEXT NOT NULL,
			nodes_json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (day_key, list_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_forests_day ON forests(day_key);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			op TEXT NOT NULL,
			day_key TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_unixms);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', ?)`, schemaVersion)
	return err
}

// LoadForest returns the persisted forest for one day, or (nil, nil) when the
// day has no data.
func (s Store) LoadForest(ctx context.Context, dayKey string) (model.Forest, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT list_id, nodes_json FROM forests WHERE day_key = ?`, dayKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var f model.Forest
	for rows.Next() {
		var listID, raw string
		if err := rows.Scan(&listID, &raw); err != nil {
			return nil, err
		}
		var nodes []model.TaskNode
		if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
			return nil, err
		}
		if f == nil {
			f = model.Forest{}
		}
		f[listID] = nodes
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// SaveForest replaces the whole document for one day in a single transaction.
func (s Store) SaveForest(ctx context.Context, dayKey string, f model.Forest) error {
	if dayKey == "" {
		return errors.New("empty day key")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forests WHERE day_key = ?`, dayKey); err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	listIDs := make([]string, 0, len(f))
	for listID := range f {
		listIDs = append(listIDs, listID)
	}
	sort.Strings(listIDs)
	for _, listID := range listIDs {
		nodes := f[listID]
		if len(nodes) == 0 {
			continue
		}
		raw, err := json.Marshal(nodes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO forests(day_key, list_id, nodes_json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			dayKey, listID, string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CarriedOverDay returns the day the carry-over merge last ran for, or "".
func (s Store) CarriedOverDay(ctx context.Context) (string, error) {
	return s.getMeta(ctx, metaCarriedOverDay)
}

func (s Store) SetCarriedOverDay(ctx context.Context, dayKey string) error {
	return s.setMeta(ctx, metaCarriedOverDay, dayKey)
}

func (s Store) getMeta(ctx context.Context, k string) (string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, k).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s Store) setMeta(ctx context.Context, k, v string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, k, v)
	return err
}
