package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"dayplan-cli/internal/model"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// The list output must stay readable on both light and dark backgrounds, so
// everything is AdaptiveColor.
var (
	styleDone = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "243"}).
			Strikethrough(true)
	styleCarried = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "179"})
	styleID = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "242"})
	styleListHeader = lipgloss.NewStyle().Bold(true)
)

func normalizeListRef(listID string) string {
	if listID == "" {
		return model.DefaultListID
	}
	return listID
}

func sortedListIDs(f model.Forest) []string {
	out := make([]string, 0, len(f))
	for listID := range f {
		out = append(out, listID)
	}
	sort.Strings(out)
	return out
}

func renderList(w io.Writer, listID string, nodes []model.TaskNode) {
	fmt.Fprintln(w, styleListHeader.Render(normalizeListRef(listID)))
	if len(nodes) == 0 {
		fmt.Fprintln(w, "  (no tasks)")
		return
	}
	renderNodes(w, nodes, 1)
}

func renderNodes(w io.Writer, nodes []model.TaskNode, depth int) {
	for _, n := range nodes {
		box := "○"
		if n.Completed {
			box = "✓"
		}
		text := n.Text
		switch {
		case n.Completed:
			text = styleDone.Render(text)
		case n.CarriedOver:
			text = styleCarried.Render(text)
		}
		for i := 0; i < depth; i++ {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprintf(w, "%s %s %s\n", box, text, styleID.Render(n.ID))
		if len(n.Children) > 0 && !n.Collapsed {
			renderNodes(w, n.Children, depth+1)
		}
	}
}
