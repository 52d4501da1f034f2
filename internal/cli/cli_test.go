package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testDay is a fixed past day so commands never trigger the daily carry-over.
const testDay = "2026-01-02"

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func plainOutput(t *testing.T) {
	t.Helper()
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })
}

func addTask(t *testing.T, dir, text string, extra ...string) string {
	t.Helper()
	args := append([]string{"--dir", dir, "--day", testDay, "add", text}, extra...)
	out, errOut, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("add: %v\nstderr:\n%s", err, string(errOut))
	}
	return strings.TrimSpace(string(out))
}

func TestAddThenList(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	id := addTask(t, dir, "buy milk")
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("add printed %q", id)
	}

	out, errOut, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "list"})
	if err != nil {
		t.Fatalf("list: %v\nstderr:\n%s", err, string(errOut))
	}
	if !strings.Contains(string(out), "buy milk") || !strings.Contains(string(out), id) {
		t.Fatalf("list output:\n%s", out)
	}
}

func TestAddChildNests(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	parent := addTask(t, dir, "write report")
	child := addTask(t, dir, "outline sections", "--parent", parent)

	out, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var parentLine, childLine string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, parent) {
			parentLine = line
		}
		if strings.Contains(line, child) {
			childLine = line
		}
	}
	if parentLine == "" || childLine == "" {
		t.Fatalf("tasks missing from list:\n%s", out)
	}
	indent := func(s string) int { return len(s) - len(strings.TrimLeft(s, " ")) }
	if indent(childLine) <= indent(parentLine) {
		t.Fatalf("child not nested:\n%s", out)
	}
}

func TestDoneMarksTask(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	id := addTask(t, dir, "buy milk")
	if _, errOut, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "done", id}); err != nil {
		t.Fatalf("done: %v\nstderr:\n%s", err, string(errOut))
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, id) {
			if !strings.Contains(line, "✓") {
				t.Fatalf("done task not checked: %q", line)
			}
			return
		}
	}
	t.Fatalf("task %s missing:\n%s", id, out)
}

func TestDoneUnknownIDFails(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	_, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "done", "task-nope"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestRmPromotesChildren(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	parent := addTask(t, dir, "doomed parent")
	child := addTask(t, dir, "surviving child", "--parent", parent)

	if _, errOut, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "rm", parent}); err != nil {
		t.Fatalf("rm: %v\nstderr:\n%s", err, string(errOut))
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(string(out), parent) {
		t.Fatalf("removed task still listed:\n%s", out)
	}
	if !strings.Contains(string(out), child) {
		t.Fatalf("child vanished with its parent:\n%s", out)
	}
}

func TestMoveIntoOwnSubtreeFails(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	parent := addTask(t, dir, "a")
	child := addTask(t, dir, "a1", "--parent", parent)

	_, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "move", parent, "--to", child})
	if err == nil || !strings.Contains(err.Error(), "move aborted") {
		t.Fatalf("err = %v", err)
	}
}

func TestUndoFreshProcessHasNothing(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	addTask(t, dir, "buy milk")
	out, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "undo"})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !strings.Contains(string(out), "nothing to undo") {
		t.Fatalf("undo output: %q", out)
	}
}

func TestProjectListsAreSeparate(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	addTask(t, dir, "unfiled task")
	id := addTask(t, dir, "work task", "--project", "work")

	out, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "--project", "work", "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(string(out), id) || strings.Contains(string(out), "unfiled task") {
		t.Fatalf("work list output:\n%s", out)
	}

	all, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "list", "--all"})
	if err != nil {
		t.Fatalf("list --all: %v", err)
	}
	if !strings.Contains(string(all), "unfiled task") || !strings.Contains(string(all), "work task") {
		t.Fatalf("list --all output:\n%s", all)
	}
}

func TestListJSON(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	id := addTask(t, dir, "buy milk")
	out, _, err := runCLI(t, []string{"--dir", dir, "--day", testDay, "list", "--json"})
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var nodes []map[string]any
	if err := json.Unmarshal(out, &nodes); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, out)
	}
	if len(nodes) != 1 || nodes[0]["id"] != id || nodes[0]["text"] != "buy milk" {
		t.Fatalf("nodes = %#v", nodes)
	}
}

func TestEventsRecordMutations(t *testing.T) {
	plainOutput(t)
	dir := t.TempDir()

	addTask(t, dir, "buy milk")
	out, _, err := runCLI(t, []string{"--dir", dir, "events"})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if !strings.Contains(string(out), "task.add") {
		t.Fatalf("events output:\n%s", out)
	}
}
