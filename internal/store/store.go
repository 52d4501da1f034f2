// Package store persists day-keyed task forests, projects, settings, and an
// append-only mutation log in a per-workspace SQLite database.
package store

import (
	"os"
	"path/filepath"
	"time"
)

const storeDirName = ".dayplan"

// Store is a handle on one workspace directory.
type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for an existing workspace dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace dir: $DAYPLAN_DIR if set, else the nearest
// ancestor workspace, else <cwd>/.dayplan.
func DefaultDir() (string, error) {
	if env := os.Getenv("DAYPLAN_DIR"); env != "" {
		return env, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, storeDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// DayKey formats t as the per-day document key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// PreviousDayKey returns the key of the calendar day before dayKey. Returns
// dayKey unchanged if it does not parse.
func PreviousDayKey(dayKey string) string {
	t, err := time.Parse("2006-01-02", dayKey)
	if err != nil {
		return dayKey
	}
	return DayKey(t.AddDate(0, 0, -1))
}
