package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const settingsFileName = "settings.toml"

// Settings is the small user-facing configuration surface, stored as TOML in
// the workspace dir. Callers should tolerate a missing file.
type Settings struct {
	// DefaultProject keys the list used when no --project is given.
	DefaultProject string `toml:"default_project"`
	// CarryOver disables the daily rollover merge when false.
	CarryOver bool `toml:"carry_over"`
	// UndoCap bounds the undo history (0 = engine default).
	UndoCap int `toml:"undo_cap"`
	// Pomodoro durations are persisted for the shell; the engine ignores them.
	PomodoroMinutes int `toml:"pomodoro_minutes"`
	BreakMinutes    int `toml:"break_minutes"`
}

func DefaultSettings() Settings {
	return Settings{
		CarryOver:       true,
		PomodoroMinutes: 25,
		BreakMinutes:    5,
	}
}

func (s Store) settingsPath() string {
	return filepath.Join(s.Dir, settingsFileName)
}

// LoadSettings reads settings.toml, returning defaults when the file is absent.
func (s Store) LoadSettings() (Settings, error) {
	out := DefaultSettings()
	b, err := os.ReadFile(s.settingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return out, err
	}
	if err := toml.Unmarshal(b, &out); err != nil {
		return DefaultSettings(), err
	}
	return out, nil
}

func (s Store) SaveSettings(settings Settings) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	f, err := os.Create(s.settingsPath())
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(settings)
}
