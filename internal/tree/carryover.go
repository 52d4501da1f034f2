package tree

import "dayplan-cli/internal/model"

// Incomplete returns the subset of the sequence that is still open, for the
// daily carry-over. A completed node is dropped together with its subtree;
// every survivor is flagged CarriedOver (nodes carried on an earlier day keep
// the flag they already have). The input is left untouched.
func Incomplete(nodes []model.TaskNode) []model.TaskNode {
	var out []model.TaskNode
	for _, n := range nodes {
		if n.Completed {
			continue
		}
		n.Children = Incomplete(n.Children)
		n.CarriedOver = true
		out = append(out, n)
	}
	return out
}
