package cli

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var guideMarkdown string

func newDocsCmd(app *App) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Show the user guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), guideMarkdown)
				return nil
			}
			// Fixed style instead of WithAutoStyle: auto-detection can block on
			// terminal queries when output is piped.
			style := "light"
			if lipgloss.HasDarkBackground() {
				style = "dark"
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(style),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), guideMarkdown)
				return nil
			}
			out, err := r.Render(guideMarkdown)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), guideMarkdown)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown")
	return cmd
}
