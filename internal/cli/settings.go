package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dayplan-cli/internal/store"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change workspace settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return err
			}
			settings, err := s.LoadSettings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "default_project  = %q\n", settings.DefaultProject)
			fmt.Fprintf(out, "carry_over       = %v\n", settings.CarryOver)
			fmt.Fprintf(out, "undo_cap         = %d\n", settings.UndoCap)
			fmt.Fprintf(out, "pomodoro_minutes = %d\n", settings.PomodoroMinutes)
			fmt.Fprintf(out, "break_minutes    = %d\n", settings.BreakMinutes)
			return nil
		},
	}
	cmd.AddCommand(newSettingsSetCmd(app))
	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one settings key (see `dayplan settings` for keys)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return err
			}
			settings, err := s.LoadSettings()
			if err != nil {
				return err
			}
			if err := applySetting(&settings, args[0], args[1]); err != nil {
				return err
			}
			return s.SaveSettings(settings)
		},
	}
}

func applySetting(s *store.Settings, key, value string) error {
	switch key {
	case "default_project":
		s.DefaultProject = value
	case "carry_over":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("carry_over wants true/false: %w", err)
		}
		s.CarryOver = b
	case "undo_cap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("undo_cap wants an integer: %w", err)
		}
		s.UndoCap = n
	case "pomodoro_minutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("pomodoro_minutes wants an integer: %w", err)
		}
		s.PomodoroMinutes = n
	case "break_minutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("break_minutes wants an integer: %w", err)
		}
		s.BreakMinutes = n
	default:
		return fmt.Errorf("unknown settings key: %q", key)
	}
	return nil
}
