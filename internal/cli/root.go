package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dayplan-cli/internal/engine"
	"dayplan-cli/internal/store"
	"dayplan-cli/internal/tui"
)

type App struct {
	Dir     string
	Project string
	Day     string
}

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "dayplan"})

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dayplan",
		Short:        "Daily task-tree planner (local-first CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive outline for today
  dayplan

  # Scriptable commands
  dayplan add "buy milk"
  dayplan add "write report" --parent task-abc123de
  dayplan list
  dayplan done task-abc123de
  dayplan undo
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DAYPLAN_DIR", ""), "Path to workspace dir (default: discovered .dayplan)")
	cmd.PersistentFlags().StringVar(&app.Project, "project", envOr("DAYPLAN_PROJECT", ""), "Project list to operate on (id or name)")
	cmd.PersistentFlags().StringVar(&app.Day, "day", "", "Day to operate on (YYYY-MM-DD, default today)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newUndoneCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newTidyCmd(app))
	cmd.AddCommand(newIndentCmd(app))
	cmd.AddCommand(newUnindentCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newCollapseCmd(app))
	cmd.AddCommand(newExpandCmd(app))
	cmd.AddCommand(newUndoCmd(app))
	cmd.AddCommand(newRedoCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newCarryoverCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *App) dayKey() string {
	if strings.TrimSpace(a.Day) != "" {
		return strings.TrimSpace(a.Day)
	}
	return store.DayKey(time.Now())
}

func openStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		var err error
		dir, err = store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
	}
	s := store.Store{Dir: dir}
	return s, s.Ensure()
}

// loadEngine opens the workspace, primes an engine for the requested day, and
// runs the daily carry-over merge when due.
func loadEngine(ctx context.Context, app *App) (*engine.Engine, store.Store, store.Settings, error) {
	s, err := openStore(app)
	if err != nil {
		return nil, store.Store{}, store.Settings{}, err
	}
	settings, err := s.LoadSettings()
	if err != nil {
		return nil, store.Store{}, store.Settings{}, err
	}

	eng := engine.New(s, s, engine.Options{UndoCap: settings.UndoCap})
	day := app.dayKey()
	if err := eng.Load(ctx, day); err != nil {
		return nil, store.Store{}, store.Settings{}, err
	}

	if settings.CarryOver && day == store.DayKey(time.Now()) {
		merged, err := eng.CarryOver(ctx, day, store.PreviousDayKey(day))
		if err != nil {
			// Carry-over trouble should not block today's planning.
			logger.Warn("carry-over failed", "err", err)
		} else if merged {
			logger.Info("carried over yesterday's open tasks")
		}
	}
	return eng, s, settings, nil
}

// listID resolves the active list: --project (id or name), else the settings
// default, else the unfiled list.
func listID(ctx context.Context, app *App, s store.Store, settings store.Settings) string {
	ref := strings.TrimSpace(app.Project)
	if ref == "" {
		ref = strings.TrimSpace(settings.DefaultProject)
	}
	if ref == "" {
		return ""
	}
	if p, ok, err := s.FindProject(ctx, ref); err == nil && ok {
		return p.ID
	}
	return ref
}

// finish drains pending saves and logs any persistence warnings. Failed saves
// never fail the command: in-memory state already moved on and the next save
// will carry it.
func finish(eng *engine.Engine) {
	eng.Wait()
	for {
		select {
		case w := <-eng.Warnings():
			logger.Warn("background save failed", "day", w.DayKey, "err", w.Err)
		default:
			return
		}
	}
}

func logEvent(ctx context.Context, s store.Store, op, dayKey string, payload any) {
	if err := s.AppendEvent(ctx, op, dayKey, payload); err != nil {
		logger.Debug("event log append failed", "op", op, "err", err)
	}
}

func runTUI(app *App) error {
	ctx := context.Background()
	eng, s, settings, err := loadEngine(ctx, app)
	if err != nil {
		return err
	}
	defer finish(eng)
	return tui.Run(eng, listID(ctx, app, s, settings))
}
