package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the forest as it was before the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			// History is in-memory per engine instance, so a fresh CLI process
			// has nothing to undo; only same-process edits (TUI) do.
			if !eng.Undo() {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to undo")
				return nil
			}
			logEvent(ctx, s, "history.undo", eng.DayKey(), nil)
			return nil
		},
	}
}

func newRedoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Re-apply the most recently undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			if !eng.Redo() {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to redo")
				return nil
			}
			logEvent(ctx, s, "history.redo", eng.DayKey(), nil)
			return nil
		},
	}
}

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the mutation log, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openStore(app)
			if err != nil {
				return err
			}
			events, err := s.ReadEvents(ctx, limit)
			if err != nil {
				return err
			}
			for _, ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-16s %s\n", ev.TS.Format("2006-01-02 15:04:05"), ev.Op, ev.DayKey)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to show (0 = all)")
	return cmd
}
