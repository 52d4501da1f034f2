package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"dayplan-cli/internal/model"
)

// row is one visible line of the flattened outline.
type row struct {
	id        string
	depth     int
	text      string
	completed bool
	collapsed bool
	carried   bool
	hasKids   bool
}

// flatten walks the outline depth-first, skipping the children of collapsed
// nodes. The result is the exact display order.
func flatten(nodes []model.TaskNode) []row {
	var out []row
	var walk func(ns []model.TaskNode, depth int)
	walk = func(ns []model.TaskNode, depth int) {
		for _, n := range ns {
			out = append(out, row{
				id:        n.ID,
				depth:     depth,
				text:      n.Text,
				completed: n.Completed,
				collapsed: n.Collapsed,
				carried:   n.CarriedOver,
				hasKids:   len(n.Children) > 0,
			})
			if !n.Collapsed {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(nodes, 0)
	return out
}

func renderRow(r row, selected bool, width int) string {
	box := "○"
	if r.completed {
		box = "✓"
	}
	fold := "  "
	if r.hasKids && r.collapsed {
		fold = "▸ "
	} else if r.hasKids {
		fold = "▾ "
	}

	line := strings.Repeat("  ", r.depth) + fold + box + " " + r.text
	if r.carried && !r.completed {
		line += " ↻"
	}

	// ANSI-aware truncation so styled text never overflows the pane.
	if width > 1 && xansi.StringWidth(line) > width {
		line = xansi.Cut(line, 0, width-1) + "…"
	}

	switch {
	case selected:
		if width > 0 && xansi.StringWidth(line) < width {
			line += strings.Repeat(" ", width-xansi.StringWidth(line))
		}
		return styleSelected.Render(line)
	case r.completed:
		return styleDone.Render(line)
	case r.carried:
		return styleCarried.Render(line)
	default:
		return line
	}
}
