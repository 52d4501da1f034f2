package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"dayplan-cli/internal/model"
)

func TestFlattenSkipsCollapsedChildren(t *testing.T) {
	nodes := []model.TaskNode{
		{ID: "a", Text: "a", Collapsed: true, Children: []model.TaskNode{
			{ID: "a1", Text: "hidden"},
		}},
		{ID: "b", Text: "b", Children: []model.TaskNode{
			{ID: "b1", Text: "visible"},
		}},
	}
	rows := flatten(nodes)
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].id != "a" || rows[1].id != "b" || rows[2].id != "b1" {
		t.Fatalf("order = %q %q %q", rows[0].id, rows[1].id, rows[2].id)
	}
	if rows[2].depth != 1 {
		t.Fatalf("b1 depth = %d", rows[2].depth)
	}
	if !rows[0].hasKids || !rows[0].collapsed {
		t.Fatalf("a row flags = %+v", rows[0])
	}
}

func TestRenderRowGlyphs(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	done := renderRow(row{id: "a", text: "done task", completed: true}, false, 80)
	if !strings.Contains(done, "✓") {
		t.Fatalf("completed glyph missing: %q", done)
	}

	open := renderRow(row{id: "b", text: "open task"}, false, 80)
	if !strings.Contains(open, "○") {
		t.Fatalf("open glyph missing: %q", open)
	}

	folded := renderRow(row{id: "c", text: "parent", hasKids: true, collapsed: true}, false, 80)
	if !strings.Contains(folded, "▸") {
		t.Fatalf("fold glyph missing: %q", folded)
	}

	carried := renderRow(row{id: "d", text: "leftover", carried: true}, false, 80)
	if !strings.Contains(carried, "↻") {
		t.Fatalf("carry marker missing: %q", carried)
	}

	// Completed carried tasks drop the marker; the strikethrough says enough.
	doneCarried := renderRow(row{id: "e", text: "was leftover", carried: true, completed: true}, false, 80)
	if strings.Contains(doneCarried, "↻") {
		t.Fatalf("carry marker on completed task: %q", doneCarried)
	}
}

func TestRenderRowTruncatesToWidth(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	long := strings.Repeat("x", 200)
	out := renderRow(row{id: "a", text: long}, false, 40)
	if !strings.Contains(out, "…") {
		t.Fatalf("expected ellipsis in narrow render: %q", out)
	}

	wide := renderRow(row{id: "a", text: "short"}, false, 140)
	if strings.Contains(wide, "…") {
		t.Fatalf("unexpected ellipsis in wide render: %q", wide)
	}
}

func TestRenderRowIndentsByDepth(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	root := renderRow(row{id: "a", text: "t"}, false, 80)
	nested := renderRow(row{id: "b", text: "t", depth: 2}, false, 80)
	if !strings.HasPrefix(nested, "    ") {
		t.Fatalf("depth-2 row not indented: %q", nested)
	}
	if strings.HasPrefix(root, " ") {
		t.Fatalf("root row indented: %q", root)
	}
}
