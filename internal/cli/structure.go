package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newIndentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "indent <task-id>",
		Short: "Nest a task under its preceding sibling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			if eng.Indent(args[0]) {
				logEvent(ctx, s, "task.indent", eng.DayKey(), map[string]any{"id": args[0]})
			}
			return nil
		},
	}
}

func newUnindentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unindent <task-id>",
		Short: "Hoist a task next to its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			if eng.Unindent(args[0]) {
				logEvent(ctx, s, "task.unindent", eng.DayKey(), map[string]any{"id": args[0]})
			}
			return nil
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	var to string
	var index int
	cmd := &cobra.Command{
		Use:   "move <task-id...>",
		Short: "Move tasks under a new parent (or to the root) at a position",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, settings, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			list := listID(ctx, app, s, settings)
			if !eng.Move(list, args, to, index) {
				// Either nothing matched or the move would create a cycle.
				return errors.New("move aborted: target missing, moved, or inside a moved subtree")
			}
			logEvent(ctx, s, "task.move", eng.DayKey(), map[string]any{"ids": args, "to": to, "index": index})
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target parent task id (empty = root level)")
	cmd.Flags().IntVar(&index, "index", 0, "Position among the target's children")
	return cmd
}

func newCollapseCmd(app *App) *cobra.Command {
	return collapseCmd(app, "collapse", "Collapse a task's children in outline views", true)
}

func newExpandCmd(app *App) *cobra.Command {
	return collapseCmd(app, "expand", "Expand a task's children in outline views", false)
}

func collapseCmd(app *App, use, short string, collapsed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			if !eng.SetCollapsed(args[0], collapsed) {
				return errNotFound("task", args[0])
			}
			logEvent(ctx, s, "task."+use, eng.DayKey(), map[string]any{"id": args[0]})
			return nil
		},
	}
}
