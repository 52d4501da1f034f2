package engine

import (
	"context"
	"fmt"
	"sort"

	"dayplan-cli/internal/model"
	"dayplan-cli/internal/tree"
)

// CarryOver merges yesterday's incomplete tasks into the loaded forest, once
// per calendar day.
//
// For every list in yesterday's forest the open subtrees are appended after
// any tasks already planned for today, flagged CarriedOver. A persisted
// marker makes the merge idempotent across repeated loads and app restarts.
// Returns true when the forest changed. The merged result is saved
// synchronously; on first load there is nothing optimistic to protect yet.
func (e *Engine) CarryOver(ctx context.Context, today, yesterday string) (bool, error) {
	marker, err := e.persist.CarriedOverDay(ctx)
	if err != nil {
		return false, err
	}
	if marker == today {
		return false, nil
	}

	prior, err := e.persist.LoadForest(ctx, yesterday)
	if err != nil {
		return false, err
	}

	changed := false
	if len(prior) > 0 {
		next := e.forest.Clone()
		listIDs := make([]string, 0, len(prior))
		for listID := range prior {
			listIDs = append(listIDs, listID)
		}
		sort.Strings(listIDs)

		for _, listID := range listIDs {
			carried := tree.Incomplete(prior[listID])
			for _, n := range carried {
				if e.collides(next, n) {
					// Ids are expected unique; a collision means this subtree
					// already lives in today's forest, so leave it alone.
					continue
				}
				next[listID] = append(next[listID], n)
				changed = true
			}
		}
		if changed {
			// Initialization, not a user edit: no undo snapshot.
			e.forest = next
		}
	}

	if err := e.persist.SetCarriedOverDay(ctx, today); err != nil {
		return changed, fmt.Errorf("mark carry-over day: %w", err)
	}
	if changed {
		if err := e.persist.SaveForest(ctx, today, e.forest.Clone()); err != nil {
			return changed, fmt.Errorf("save merged forest: %w", err)
		}
	}
	return changed, nil
}

func (e *Engine) collides(f model.Forest, n model.TaskNode) bool {
	for _, id := range tree.IDs([]model.TaskNode{n}) {
		for _, nodes := range f {
			if tree.Contains(nodes, id) {
				return true
			}
		}
	}
	return false
}
