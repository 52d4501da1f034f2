// Package tree implements the structural operations on task outlines.
//
// All operations are pure with respect to their input: they either return a
// rebuilt node sequence or report no change. Lookups that miss resolve to a
// no-op, never an error: callers may hold stale ids for nodes another code
// path already deleted.
package tree

import "dayplan-cli/internal/model"

// Find returns a pointer to the node with the given id, searching the whole
// sequence depth-first. The pointer aliases the input; callers that need
// immutability must pass an owned clone.
func Find(nodes []model.TaskNode, id string) *model.TaskNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
		if n := Find(nodes[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}

// Contains reports whether id names any node in the sequence, at any depth.
func Contains(nodes []model.TaskNode, id string) bool {
	return Find(nodes, id) != nil
}

// IDs collects every node id in the sequence in depth-first order.
func IDs(nodes []model.TaskNode) []string {
	var out []string
	var walk func(ns []model.TaskNode)
	walk = func(ns []model.TaskNode) {
		for _, n := range ns {
			out = append(out, n.ID)
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}

// Count returns the number of nodes in the sequence, at any depth.
func Count(nodes []model.TaskNode) int {
	n := len(nodes)
	for i := range nodes {
		n += Count(nodes[i].Children)
	}
	return n
}

// insertAfter inserts node as the next sibling of afterID, searching the whole
// sequence depth-first. Reports false when afterID is not present.
func insertAfter(nodes []model.TaskNode, afterID string, node model.TaskNode) ([]model.TaskNode, bool) {
	for i := range nodes {
		if nodes[i].ID == afterID {
			nodes = append(nodes, model.TaskNode{})
			copy(nodes[i+2:], nodes[i+1:])
			nodes[i+1] = node
			return nodes, true
		}
		if kids, ok := insertAfter(nodes[i].Children, afterID, node); ok {
			nodes[i].Children = kids
			return nodes, true
		}
	}
	return nodes, false
}

// removeSubtrees removes every node whose id is in ids, together with its
// subtree. Descendants of a removed node are not searched: a selection that
// names both an ancestor and its descendant moves as one unit under the
// ancestor. Removed nodes are returned in document order.
func removeSubtrees(nodes []model.TaskNode, ids map[string]struct{}) (rest, removed []model.TaskNode) {
	rest = nodes[:0]
	for _, n := range nodes {
		if _, hit := ids[n.ID]; hit {
			removed = append(removed, n)
			continue
		}
		var sub []model.TaskNode
		n.Children, sub = removeSubtrees(n.Children, ids)
		removed = append(removed, sub...)
		rest = append(rest, n)
	}
	return rest, removed
}
