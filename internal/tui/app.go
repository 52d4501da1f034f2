// Package tui is the interactive outline editor. It is a thin shell: every
// edit goes through the same engine operations the CLI uses.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dayplan-cli/internal/engine"
)

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeInsert
)

type Model struct {
	eng    *engine.Engine
	listID string

	rows   []row
	cursor int
	offset int

	mode  mode
	input textinput.Model
	// editID is the node being edited (modeEdit) or the node the new task is
	// inserted after (modeInsert, "" = append at root).
	editID string

	width  int
	height int
	status string
}

func New(eng *engine.Engine, listID string) Model {
	ti := textinput.New()
	ti.Placeholder = "task text"
	ti.CharLimit = 200

	m := Model{eng: eng, listID: listID, input: ti, width: 80, height: 24}
	m.refresh("")
	return m
}

// Run starts the outline editor and blocks until the user quits.
func Run(eng *engine.Engine, listID string) error {
	ConfigureColorProfile()
	p := tea.NewProgram(New(eng, listID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// refresh re-flattens the outline and keeps the cursor on keepID when it is
// still visible.
func (m *Model) refresh(keepID string) {
	m.rows = flatten(m.eng.List(m.listID))
	if keepID != "" {
		for i, r := range m.rows {
			if r.id == keepID {
				m.cursor = i
				break
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) listHeight() int {
	// Header, status line, help line.
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) current() (row, bool) {
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return row{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampScroll()
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.clampScroll()
		}
	case "enter":
		m.mode = modeInsert
		m.editID = ""
		if r, ok := m.current(); ok {
			m.editID = r.id
		}
		m.input.SetValue("")
		m.input.Focus()
	case "e":
		if r, ok := m.current(); ok {
			m.mode = modeEdit
			m.editID = r.id
			m.input.SetValue(r.text)
			m.input.CursorEnd()
			m.input.Focus()
		}
	case "x":
		if r, ok := m.current(); ok {
			m.eng.SetCompleted(r.id, !r.completed)
			m.refresh(r.id)
		}
	case "tab":
		if r, ok := m.current(); ok {
			if m.eng.Indent(r.id) {
				m.refresh(r.id)
			}
		}
	case "shift+tab":
		if r, ok := m.current(); ok {
			if m.eng.Unindent(r.id) {
				m.refresh(r.id)
			}
		}
	case "z":
		if r, ok := m.current(); ok && r.hasKids {
			m.eng.SetCollapsed(r.id, !r.collapsed)
			m.refresh(r.id)
		}
	case "d":
		if r, ok := m.current(); ok {
			m.eng.Delete([]string{r.id})
			m.refresh("")
		}
	case "u":
		if m.eng.Undo() {
			m.status = "undid"
		} else {
			m.status = "nothing to undo"
		}
		m.refresh("")
	case "r":
		if m.eng.Redo() {
			m.status = "redid"
		} else {
			m.status = "nothing to redo"
		}
		m.refresh("")
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		switch m.mode {
		case modeInsert:
			if text != "" {
				id := m.eng.Insert(text, m.listID, "", m.editID)
				m.refresh(id)
			}
		case modeEdit:
			if m.eng.UpdateText(m.editID, text) {
				m.refresh(m.editID)
			}
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	open := 0
	for _, r := range m.rows {
		if !r.completed {
			open++
		}
	}
	header := fmt.Sprintf("dayplan · %s · %d open / %d", m.eng.DayKey(), open, len(m.rows))
	b.WriteString(styleHeader.Render(header))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(styleMuted.Render("  no tasks. press enter to add one"))
		b.WriteString("\n")
	}

	visible := m.listHeight()
	for i := m.offset; i < len(m.rows) && i < m.offset+visible; i++ {
		b.WriteString(renderRow(m.rows[i], i == m.cursor && m.mode == modeBrowse, m.width))
		b.WriteString("\n")
	}

	if m.mode != modeBrowse {
		label := "new: "
		if m.mode == modeEdit {
			label = "edit: "
		}
		b.WriteString(label + m.input.View())
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styleMuted.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(styleHelp.Render("enter add · e edit · x done · tab/shift+tab nest · z fold · d delete · u/r undo/redo · q quit"))
	return b.String()
}
