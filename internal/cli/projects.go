package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dayplan-cli/internal/model"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage project lists",
	}
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsArchiveCmd(app))
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openStore(app)
			if err != nil {
				return err
			}
			p := model.Project{
				ID:        s.NewProjectID(),
				Name:      strings.TrimSpace(strings.Join(args, " ")),
				CreatedAt: time.Now().UTC(),
			}
			if err := s.SaveProject(ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openStore(app)
			if err != nil {
				return err
			}
			projects, err := s.ListProjects(ctx)
			if err != nil {
				return err
			}
			for _, p := range projects {
				marker := " "
				if p.Archived {
					marker = "a"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %s\n", marker, p.ID, p.Name)
			}
			return nil
		},
	}
}

func newProjectsArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <project>",
		Short: "Archive a project (tasks are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openStore(app)
			if err != nil {
				return err
			}
			p, ok, err := s.FindProject(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errNotFound("project", args[0])
			}
			p.Archived = true
			return s.SaveProject(ctx, p)
		},
	}
}
