package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	json "github.com/goccy/go-json"

	"dayplan-cli/internal/model"
)

// SaveProject inserts or replaces one project row.
func (s Store) SaveProject(ctx context.Context, p model.Project) error {
	if p.ID == "" {
		return errors.New("empty project id")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO projects(id, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		p.ID, p.Name, boolToInt(p.Archived), string(raw), time.Now().UTC().UnixMilli())
	return err
}

// ListProjects returns all projects, oldest first.
func (s Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT json FROM projects ORDER BY updated_at_unixms ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p model.Project
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FindProject resolves a project by id or (case-insensitive) exact name.
func (s Store) FindProject(ctx context.Context, ref string) (model.Project, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Project{}, false, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx,
		`SELECT json FROM projects WHERE id = ? OR lower(name) = lower(?) LIMIT 1`, ref, ref).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, false, nil
	}
	if err != nil {
		return model.Project{}, false, err
	}
	var p model.Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.Project{}, false, err
	}
	return p, true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
