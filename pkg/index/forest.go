package index

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// treeNode is one arena entry: the stored row plus the ordered list of its
// direct children.
type treeNode struct {
	row      types.NodeRow
	children []*treeNode
}

// forest is the in-memory shape of the whole hierarchy, built once per
// rebuild. A synthetic root (never materialized) owns every node whose
// ParentID does not resolve to a real node.
type forest struct {
	arena map[int64]*treeNode
	roots []*treeNode
}

// buildForest constructs the arena from a flat row set. A ParentID that
// references a non-existent node attaches the row under the synthetic root
// rather than failing; missing parents are a resilience case, not an error.
func buildForest(rows []types.NodeRow) *forest {
	f := &forest{arena: make(map[int64]*treeNode, len(rows))}
	for _, row := range rows {
		f.arena[row.ID] = &treeNode{row: row}
	}
	for _, row := range rows {
		n := f.arena[row.ID]
		parent, ok := f.arena[row.ParentID]
		if !ok {
			f.roots = append(f.roots, n)
			continue
		}
		parent.children = append(parent.children, n)
	}

	sortSiblings(f.roots)
	for _, n := range f.arena {
		sortSiblings(n.children)
	}
	return f
}

// sortSiblings orders a child list by (SortKey, ID).
func sortSiblings(nodes []*treeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].row.SortKey != nodes[j].row.SortKey {
			return nodes[i].row.SortKey < nodes[j].row.SortKey
		}
		return nodes[i].row.ID < nodes[j].row.ID
	})
}

// number runs the single pre-order walk that assigns the full bound set.
// The synthetic root consumes counter value 0 on the way down and the final
// value on the way up, so real numbering starts at 1 and top-level nodes
// sit at level 1. The walk fails with ErrCycleDetected when a node is
// reached twice or when parent links form a loop that leaves nodes
// unreachable from the root.
func (f *forest) number() (map[int64]types.BoundsUpdate, error) {
	updates := make(map[int64]types.BoundsUpdate, len(f.arena))
	visited := make(map[int64]bool, len(f.arena))

	counter := int64(1)
	var err error
	for _, top := range f.roots {
		counter, err = f.visit(top, 1, counter, visited, updates)
		if err != nil {
			return nil, err
		}
	}

	if len(visited) != len(f.arena) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable from root",
			types.ErrCycleDetected, len(f.arena)-len(visited), len(f.arena))
	}
	return updates, nil
}

// visit assigns bounds to one node and its subtree. The counter is a single
// shared sequence threaded through the whole walk as a return value; it is
// never reset per subtree, which is what makes sibling intervals disjoint
// across the whole forest.
func (f *forest) visit(n *treeNode, level, counter int64, visited map[int64]bool, updates map[int64]types.BoundsUpdate) (int64, error) {
	if visited[n.row.ID] {
		return 0, fmt.Errorf("%w: node %d reached twice", types.ErrCycleDetected, n.row.ID)
	}
	visited[n.row.ID] = true

	update := types.BoundsUpdate{ID: n.row.ID, Level: level, Left: counter}
	counter++

	var err error
	for _, child := range n.children {
		counter, err = f.visit(child, level+1, counter, visited, updates)
		if err != nil {
			return 0, err
		}
	}

	update.Right = counter
	counter++
	updates[n.row.ID] = update
	return counter, nil
}
