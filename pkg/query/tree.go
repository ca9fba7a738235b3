package query

import (
	"fmt"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Tree is the whole forest with per-parent child lists, rooted at the
// synthetic root: Children[types.RootID] holds the effective top-level
// IDs, including nodes whose stored ParentID references nothing.
type Tree struct {
	Nodes    map[int64]types.NodeRow
	Children map[int64][]int64
}

// ChildIDs returns the direct child IDs of ref in (SortKey, ID) order.
func (t *Tree) ChildIDs(ref types.NodeRef) []int64 {
	id, ok := ref.ID()
	if !ok {
		id = types.RootID
	}
	return t.Children[id]
}

// Tree loads the whole forest and groups every node's direct children
// under its effective parent. Child lists keep the store's (SortKey, ID)
// order, so walking the tree from the root visits siblings in sibling
// order.
func (e *Engine) Tree() (*Tree, error) {
	all, err := e.store.FetchAllOrderedBySort()
	if err != nil {
		return nil, fmt.Errorf("fetching forest: %w", err)
	}

	t := &Tree{
		Nodes:    make(map[int64]types.NodeRow, len(all)),
		Children: make(map[int64][]int64),
	}
	for _, row := range all {
		t.Nodes[row.ID] = row
	}
	for _, row := range all {
		parent := row.ParentID
		if _, ok := t.Nodes[parent]; !ok {
			parent = types.RootID
		}
		t.Children[parent] = append(t.Children[parent], row.ID)
	}
	return t, nil
}
