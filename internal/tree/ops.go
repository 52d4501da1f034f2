package tree

import (
	"strings"

	"dayplan-cli/internal/model"
)

// Insert places node into the sequence.
//
//   - parentID set: node becomes a child of that parent. afterID == parentID
//     prepends it as the first child; afterID naming another child inserts it
//     immediately after that child; anything else appends it. Inserting into a
//     collapsed parent un-collapses it so the new child is visible.
//   - parentID empty, afterID set: node becomes the next sibling of afterID,
//     searched at any depth.
//   - A reference that resolves nowhere falls back to appending at the root.
func Insert(nodes []model.TaskNode, node model.TaskNode, parentID, afterID string) []model.TaskNode {
	if parentID != "" {
		p := Find(nodes, parentID)
		if p == nil {
			return append(nodes, node)
		}
		p.Collapsed = false
		if afterID == parentID {
			p.Children = append([]model.TaskNode{node}, p.Children...)
			return nodes
		}
		if afterID != "" {
			for i := range p.Children {
				if p.Children[i].ID == afterID {
					kids := append(p.Children, model.TaskNode{})
					copy(kids[i+2:], kids[i+1:])
					kids[i+1] = node
					p.Children = kids
					return nodes
				}
			}
		}
		p.Children = append(p.Children, node)
		return nodes
	}
	if afterID != "" {
		if out, ok := insertAfter(nodes, afterID, node); ok {
			return out
		}
	}
	return append(nodes, node)
}

// SetText replaces the text of the node with the given id. Reports false when
// the id is not present.
func SetText(nodes []model.TaskNode, id, text string) bool {
	n := Find(nodes, id)
	if n == nil {
		return false
	}
	n.Text = text
	return true
}

// SetCompleted sets the completion flag, independent of the children's state.
func SetCompleted(nodes []model.TaskNode, id string, completed bool) bool {
	n := Find(nodes, id)
	if n == nil {
		return false
	}
	n.Completed = completed
	return true
}

// SetCollapsed sets the display-collapse hint.
func SetCollapsed(nodes []model.TaskNode, id string, collapsed bool) bool {
	n := Find(nodes, id)
	if n == nil {
		return false
	}
	n.Collapsed = collapsed
	return true
}

// Delete removes every node whose id is in ids, splicing each removed node's
// children into its former position among its former siblings. Children are
// resolved bottom-up, so a batch naming both a node and its descendant
// behaves as if the descendant were removed first.
func Delete(nodes []model.TaskNode, ids map[string]struct{}) ([]model.TaskNode, bool) {
	changed := false
	var strip func(ns []model.TaskNode) []model.TaskNode
	strip = func(ns []model.TaskNode) []model.TaskNode {
		// Fresh output slice: promotion can emit more nodes than read so far,
		// so filtering in place would clobber unread siblings.
		out := make([]model.TaskNode, 0, len(ns))
		for _, n := range ns {
			n.Children = strip(n.Children)
			if _, hit := ids[n.ID]; hit {
				out = append(out, n.Children...)
				changed = true
				continue
			}
			out = append(out, n)
		}
		return out
	}
	return strip(nodes), changed
}

// Indent makes the node the last child of its immediately preceding sibling,
// forcing that sibling open. A node that is first among its siblings has no
// adopter and the call is a no-op.
func Indent(nodes []model.TaskNode, id string) ([]model.TaskNode, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			if i == 0 {
				return nodes, false
			}
			moved := nodes[i]
			nodes[i-1].Children = append(nodes[i-1].Children, moved)
			nodes[i-1].Collapsed = false
			nodes = append(nodes[:i], nodes[i+1:]...)
			return nodes, true
		}
		if kids, ok := Indent(nodes[i].Children, id); ok {
			nodes[i].Children = kids
			return nodes, true
		}
	}
	return nodes, false
}

// Unindent removes the node from its parent and re-inserts it as the parent's
// next sibling. A root-level node has no parent and the call is a no-op.
func Unindent(nodes []model.TaskNode, id string) ([]model.TaskNode, bool) {
	for i := range nodes {
		for j := range nodes[i].Children {
			if nodes[i].Children[j].ID == id {
				moved := nodes[i].Children[j]
				nodes[i].Children = append(nodes[i].Children[:j], nodes[i].Children[j+1:]...)
				nodes = append(nodes, model.TaskNode{})
				copy(nodes[i+2:], nodes[i+1:])
				nodes[i+1] = moved
				return nodes, true
			}
		}
		if kids, ok := Unindent(nodes[i].Children, id); ok {
			nodes[i].Children = kids
			return nodes, true
		}
	}
	return nodes, false
}

// Move relocates the named nodes, keeping their document order and their own
// subtrees, to become children of targetParentID (roots when empty) at the
// given index. The index is clamped to the final child count. The whole batch
// aborts untouched when the target is one of the moved nodes, sits inside a
// moved subtree, or cannot be found once the moved nodes are taken out.
func Move(nodes []model.TaskNode, ids []string, targetParentID string, index int) ([]model.TaskNode, bool) {
	if len(ids) == 0 {
		return nodes, false
	}
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	work := model.CloneNodes(nodes)
	rest, moved := removeSubtrees(work, idSet)
	if len(moved) == 0 {
		return nodes, false
	}

	if targetParentID != "" {
		// Explicit cycle guard: the target must not be a moved node nor live
		// inside a moved subtree. The post-removal lookup below would also
		// miss such targets, but only as a side effect of the search set.
		if _, hit := idSet[targetParentID]; hit {
			return nodes, false
		}
		for i := range moved {
			if Contains(moved[i].Children, targetParentID) {
				return nodes, false
			}
		}
		p := Find(rest, targetParentID)
		if p == nil {
			return nodes, false
		}
		p.Children = spliceAt(p.Children, moved, index)
		p.Collapsed = false
		return rest, true
	}
	return spliceAt(rest, moved, index), true
}

// ClearEmpty strips every node whose trimmed text is empty, at any depth,
// promoting the children of each removed node into its place.
func ClearEmpty(nodes []model.TaskNode) ([]model.TaskNode, bool) {
	changed := false
	var strip func(ns []model.TaskNode) []model.TaskNode
	strip = func(ns []model.TaskNode) []model.TaskNode {
		out := make([]model.TaskNode, 0, len(ns))
		for _, n := range ns {
			n.Children = strip(n.Children)
			if strings.TrimSpace(n.Text) == "" {
				out = append(out, n.Children...)
				changed = true
				continue
			}
			out = append(out, n)
		}
		return out
	}
	return strip(nodes), changed
}

func spliceAt(dst, src []model.TaskNode, index int) []model.TaskNode {
	if index < 0 {
		index = 0
	}
	if index > len(dst) {
		index = len(dst)
	}
	out := make([]model.TaskNode, 0, len(dst)+len(src))
	out = append(out, dst[:index]...)
	out = append(out, src...)
	out = append(out, dst[index:]...)
	return out
}
