// Package engine owns the in-memory task forest for one day and its
// undo/redo history.
//
// The engine is single-writer state: operations run synchronously to
// completion and there is never a concurrent mutator, so no locking is done.
// Persistence is best-effort and asynchronous: a save failure never rolls
// back the in-memory forest; it is surfaced on the Warnings channel for the
// shell to log or retry.
package engine

import (
	"context"
	"sync"
	"time"

	"dayplan-cli/internal/model"
	"dayplan-cli/internal/tree"
)

// DefaultUndoCap bounds the undo stack; the oldest snapshot is dropped past it.
const DefaultUndoCap = 100

// Persister is the storage collaborator. LoadForest returns (nil, nil) when no
// data exists for the day.
type Persister interface {
	LoadForest(ctx context.Context, dayKey string) (model.Forest, error)
	SaveForest(ctx context.Context, dayKey string, f model.Forest) error
	CarriedOverDay(ctx context.Context) (string, error)
	SetCarriedOverDay(ctx context.Context, dayKey string) error
}

// IDSource produces fresh globally-unique node ids. The engine never mints ids
// from counters itself, so ids created out of process remain valid.
type IDSource interface {
	NewNodeID() string
}

// Warning reports a failed background save.
type Warning struct {
	DayKey string
	Err    error
}

type Options struct {
	// UndoCap overrides DefaultUndoCap when > 0.
	UndoCap int
}

// Engine holds the current forest, the bounded undo/redo stacks, and the
// injected collaborators. Construct one per process with New; it is not safe
// for concurrent use.
type Engine struct {
	persist Persister
	ids     IDSource

	dayKey  string
	forest  model.Forest
	undo    []model.Forest
	redo    []model.Forest
	undoCap int

	lastMutation time.Time

	warnings chan Warning
	saves    sync.WaitGroup
}

func New(p Persister, ids IDSource, opts Options) *Engine {
	limit := opts.UndoCap
	if limit <= 0 {
		limit = DefaultUndoCap
	}
	return &Engine{
		persist:  p,
		ids:      ids,
		forest:   model.Forest{},
		undoCap:  limit,
		warnings: make(chan Warning, 16),
	}
}

// Load primes the engine with the persisted forest for the given day,
// replacing any current state and clearing both history stacks.
func (e *Engine) Load(ctx context.Context, dayKey string) error {
	f, err := e.persist.LoadForest(ctx, dayKey)
	if err != nil {
		return err
	}
	if f == nil {
		f = model.Forest{}
	}
	e.dayKey = dayKey
	e.forest = f
	e.undo = nil
	e.redo = nil
	return nil
}

// DayKey returns the day the engine was loaded for.
func (e *Engine) DayKey() string { return e.dayKey }

// Current returns a deep copy of the forest.
func (e *Engine) Current() model.Forest { return e.forest.Clone() }

// List returns a deep copy of one list's root nodes.
func (e *Engine) List(listID string) []model.TaskNode {
	return model.CloneNodes(e.forest[normalizeList(listID)])
}

// LastMutation returns the time of the most recent mutating operation. The
// shell uses it to arbitrate which undo-capable store answers a global undo.
func (e *Engine) LastMutation() time.Time { return e.lastMutation }

// Warnings delivers background save failures. The channel is buffered and the
// engine never blocks on it; undrained warnings are dropped.
func (e *Engine) Warnings() <-chan Warning { return e.warnings }

// Wait blocks until all scheduled background saves have finished. Shells call
// it before process exit so the last mutation reaches storage.
func (e *Engine) Wait() { e.saves.Wait() }

// Insert creates a node with fresh id and the given text, placed per the
// parent/after references (see tree.Insert), and returns the new id.
func (e *Engine) Insert(text, listID, parentID, afterID string) string {
	listID = normalizeList(listID)
	next := e.forest.Clone()
	node := model.TaskNode{ID: e.freshID(), Text: text}
	next[listID] = tree.Insert(next[listID], node, parentID, afterID)
	e.commit(next)
	return node.ID
}

// UpdateText replaces a node's text. No-op (false) when the id is unknown.
func (e *Engine) UpdateText(id, text string) bool {
	return e.mutateNode(id, func(nodes []model.TaskNode) bool {
		return tree.SetText(nodes, id, text)
	})
}

// SetCompleted toggles completion. No-op (false) when the id is unknown.
func (e *Engine) SetCompleted(id string, completed bool) bool {
	return e.mutateNode(id, func(nodes []model.TaskNode) bool {
		return tree.SetCompleted(nodes, id, completed)
	})
}

// SetCollapsed sets the display-collapse hint. No-op (false) when unknown.
func (e *Engine) SetCollapsed(id string, collapsed bool) bool {
	return e.mutateNode(id, func(nodes []model.TaskNode) bool {
		return tree.SetCollapsed(nodes, id, collapsed)
	})
}

// Delete removes the named nodes across all lists, promoting children into
// each removed node's place. Unknown ids are ignored; false means nothing
// matched anywhere.
func (e *Engine) Delete(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	next := e.forest.Clone()
	changed := false
	for listID, nodes := range next {
		out, ok := tree.Delete(nodes, set)
		if ok {
			next[listID] = out
			changed = true
		}
	}
	if !changed {
		return false
	}
	e.commit(next)
	return true
}

// Indent nests the node under its preceding sibling. No-op (false) when the
// node is unknown or already first among its siblings.
func (e *Engine) Indent(id string) bool {
	return e.mutateList(func(nodes []model.TaskNode) ([]model.TaskNode, bool) {
		return tree.Indent(nodes, id)
	})
}

// Unindent hoists the node to be its parent's next sibling. No-op (false)
// when the node is unknown or already at root level.
func (e *Engine) Unindent(id string) bool {
	return e.mutateList(func(nodes []model.TaskNode) ([]model.TaskNode, bool) {
		return tree.Unindent(nodes, id)
	})
}

// Move relocates nodes within a list (see tree.Move). A cycle-forming or
// unresolvable target aborts the whole batch (false).
func (e *Engine) Move(listID string, ids []string, targetParentID string, index int) bool {
	listID = normalizeList(listID)
	next := e.forest.Clone()
	out, ok := tree.Move(next[listID], ids, targetParentID, index)
	if !ok {
		return false
	}
	next[listID] = out
	e.commit(next)
	return true
}

// ClearEmpty strips empty-text nodes from every list, promoting their
// children in place.
func (e *Engine) ClearEmpty() bool {
	next := e.forest.Clone()
	changed := false
	for listID, nodes := range next {
		out, ok := tree.ClearEmpty(nodes)
		if ok {
			next[listID] = out
			changed = true
		}
	}
	if !changed {
		return false
	}
	e.commit(next)
	return true
}

// Undo restores the previous snapshot. No-op (false) on an empty stack.
func (e *Engine) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	snap := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, e.forest)
	e.forest = snap
	e.lastMutation = time.Now()
	e.persistAsync()
	return true
}

// Redo re-applies the most recently undone snapshot. No-op (false) on an
// empty stack.
func (e *Engine) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	snap := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, e.forest)
	e.forest = snap
	e.lastMutation = time.Now()
	e.persistAsync()
	return true
}

// UndoDepth returns the number of undoable snapshots.
func (e *Engine) UndoDepth() int { return len(e.undo) }

// RedoDepth returns the number of redoable snapshots.
func (e *Engine) RedoDepth() int { return len(e.redo) }

func (e *Engine) mutateNode(id string, apply func([]model.TaskNode) bool) bool {
	next := e.forest.Clone()
	for _, nodes := range next {
		if apply(nodes) {
			e.commit(next)
			return true
		}
	}
	return false
}

func (e *Engine) mutateList(apply func([]model.TaskNode) ([]model.TaskNode, bool)) bool {
	next := e.forest.Clone()
	for listID, nodes := range next {
		out, ok := apply(nodes)
		if ok {
			next[listID] = out
			e.commit(next)
			return true
		}
	}
	return false
}

// commit installs the next forest: snapshot the old one, drop the redo stack,
// stamp the mutation, schedule a save.
func (e *Engine) commit(next model.Forest) {
	e.undo = append(e.undo, e.forest)
	if len(e.undo) > e.undoCap {
		e.undo = e.undo[len(e.undo)-e.undoCap:]
	}
	e.redo = nil
	e.forest = next
	e.lastMutation = time.Now()
	e.persistAsync()
}

func (e *Engine) persistAsync() {
	day := e.dayKey
	snapshot := e.forest.Clone()
	e.saves.Add(1)
	go func() {
		defer e.saves.Done()
		if err := e.persist.SaveForest(context.Background(), day, snapshot); err != nil {
			select {
			case e.warnings <- Warning{DayKey: day, Err: err}:
			default:
			}
		}
	}()
}

func (e *Engine) freshID() string {
	// The id source is random; collisions are vanishingly rare but ids must be
	// unique across the whole forest, so verify and retry a few times.
	for attempt := 0; attempt < 5; attempt++ {
		id := e.ids.NewNodeID()
		if !e.idExists(id) {
			return id
		}
	}
	return e.ids.NewNodeID()
}

func (e *Engine) idExists(id string) bool {
	for _, nodes := range e.forest {
		if tree.Contains(nodes, id) {
			return true
		}
	}
	return false
}

func normalizeList(listID string) string {
	if listID == "" {
		return model.DefaultListID
	}
	return listID
}
