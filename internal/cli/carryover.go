package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dayplan-cli/internal/engine"
	"dayplan-cli/internal/store"
)

func newCarryoverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "carryover",
		Short: "Merge yesterday's open tasks into today (runs at most once per day)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openStore(app)
			if err != nil {
				return err
			}
			settings, err := s.LoadSettings()
			if err != nil {
				return err
			}

			// Run the merge directly, bypassing loadEngine's carry-over-on-load
			// so the command works even with carry_over = false in settings.
			eng := engine.New(s, s, engine.Options{UndoCap: settings.UndoCap})
			day := app.dayKey()
			if err := eng.Load(ctx, day); err != nil {
				return err
			}
			merged, err := eng.CarryOver(ctx, day, store.PreviousDayKey(day))
			if err != nil {
				return err
			}
			if !merged {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to carry over")
				return nil
			}
			logEvent(ctx, s, "carryover", day, nil)
			fmt.Fprintln(cmd.OutOrStdout(), "carried over open tasks from", store.PreviousDayKey(day))
			return nil
		},
	}
}
