package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var parent string
	var after string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to today's outline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, settings, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			text := strings.TrimSpace(strings.Join(args, " "))
			list := listID(ctx, app, s, settings)
			id := eng.Insert(text, list, parent, after)
			logEvent(ctx, s, "task.add", eng.DayKey(), map[string]any{"id": id, "text": text, "list": list})
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Insert as a child of this task id")
	cmd.Flags().StringVar(&after, "after", "", "Insert right after this task id")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var all bool
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the day's outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, settings, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			forest := eng.Current()
			if asJSON {
				if !all {
					list := listID(ctx, app, s, settings)
					return writeJSON(cmd.OutOrStdout(), forest[normalizeListRef(list)])
				}
				return writeJSON(cmd.OutOrStdout(), forest)
			}
			if !all {
				list := listID(ctx, app, s, settings)
				renderList(cmd.OutOrStdout(), list, forest[normalizeListRef(list)])
				return nil
			}
			for _, lid := range sortedListIDs(forest) {
				renderList(cmd.OutOrStdout(), lid, forest[lid])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Show every list, not just the active one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return completionCmd(app, "done", "Mark tasks completed", true)
}

func newUndoneCmd(app *App) *cobra.Command {
	return completionCmd(app, "undone", "Mark tasks not completed", false)
}

func completionCmd(app *App, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id...>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			for _, id := range args {
				if !eng.SetCompleted(id, completed) {
					return errNotFound("task", id)
				}
				logEvent(ctx, s, "task."+use, eng.DayKey(), map[string]any{"id": id})
			}
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <task-id> <text...>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			id := args[0]
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if !eng.UpdateText(id, text) {
				return errNotFound("task", id)
			}
			logEvent(ctx, s, "task.edit", eng.DayKey(), map[string]any{"id": id, "text": text})
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id...>",
		Short: "Delete tasks (children are promoted into their place)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			if !eng.Delete(args) {
				return errNotFound("task", strings.Join(args, ", "))
			}
			logEvent(ctx, s, "task.rm", eng.DayKey(), map[string]any{"ids": args})
			return nil
		},
	}
}

func newTidyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tidy",
		Short: "Remove tasks with empty text at any depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			eng, s, _, err := loadEngine(ctx, app)
			if err != nil {
				return err
			}
			defer finish(eng)

			if eng.ClearEmpty() {
				logEvent(ctx, s, "task.tidy", eng.DayKey(), nil)
			}
			return nil
		},
	}
}
