package model

import "time"

// DefaultListID is the forest key for tasks that belong to no project.
const DefaultListID = "none"

// TaskNode is a single entry in a day's task outline. Children are ordered;
// their order is the display order. Nodes are never mutated in place by the
// engine: every operation rebuilds the affected part of the forest.
type TaskNode struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Collapsed   bool       `json:"collapsed,omitempty"`
	CarriedOver bool       `json:"carriedOver,omitempty"`
	Children    []TaskNode `json:"children,omitempty"`
}

// Forest maps a list id (project id or DefaultListID) to its ordered root nodes.
// The forest is the unit of undo/redo snapshotting and of persistence.
type Forest map[string][]TaskNode

// Clone returns a deep copy of the forest.
func (f Forest) Clone() Forest {
	if f == nil {
		return nil
	}
	out := make(Forest, len(f))
	for listID, nodes := range f {
		out[listID] = CloneNodes(nodes)
	}
	return out
}

// CloneNodes returns a deep copy of a node sequence.
func CloneNodes(nodes []TaskNode) []TaskNode {
	if nodes == nil {
		return nil
	}
	out := make([]TaskNode, len(nodes))
	for i, n := range nodes {
		n.Children = CloneNodes(n.Children)
		out[i] = n
	}
	return out
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

// Event is one entry in the append-only mutation log.
type Event struct {
	ID      string    `json:"id"`
	TS      time.Time `json:"ts"`
	Op      string    `json:"op"`
	DayKey  string    `json:"dayKey"`
	Payload any       `json:"payload,omitempty"`
}
