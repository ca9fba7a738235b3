// Package query answers tree questions over correctly numbered bounds.
//
// Every operation is a pure read expressed as range or equality predicates
// on the (left, right, level) triple; none of them trigger a rebuild or
// recurse into storage. Missing nodes degrade to per-operation defaults
// (all nodes, top-level nodes, empty, false, zero) instead of erroring,
// so a stale caller never takes down a read path.
package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Engine runs tree queries against a RecordStore with already-correct
// bounds. Engines are stateless and safe for concurrent use.
type Engine struct {
	store types.RecordStore
}

// New creates an Engine over the given store.
func New(store types.RecordStore) *Engine {
	return &Engine{store: store}
}

// Children returns the direct children of ref in left order. For the
// synthetic root that is every effective top-level node, including nodes
// whose ParentID references nothing that exists. With includeSelf the
// referenced node itself is part of the result; the flag is a no-op for
// the root, which is never materialized.
func (e *Engine) Children(ref types.NodeRef, includeSelf bool) ([]types.NodeRow, error) {
	id, ok := ref.ID()
	if !ok {
		return e.topLevel()
	}

	rows, err := e.store.FetchByParent(id)
	if err != nil {
		return nil, fmt.Errorf("fetching children of node %d: %w", id, err)
	}
	if includeSelf {
		self, err := e.store.FetchNode(id)
		if err == nil {
			rows = append(rows, self)
		} else if !errors.Is(err, types.ErrNodeNotFound) {
			return nil, fmt.Errorf("fetching node %d: %w", id, err)
		}
	}
	sortByLeft(rows)
	return rows, nil
}

// Descendants returns the subtree of ref in left order. A root reference
// or a reference to a node absent from the store yields the whole forest.
func (e *Engine) Descendants(ref types.NodeRef, includeSelf bool) ([]types.NodeRow, error) {
	id, ok := ref.ID()
	if !ok {
		return e.allByLeft()
	}

	node, err := e.store.FetchNode(id)
	if errors.Is(err, types.ErrNodeNotFound) {
		return e.allByLeft()
	}
	if err != nil {
		return nil, fmt.Errorf("fetching node %d: %w", id, err)
	}

	left := types.RangeCond{Op: types.OpGT, Value: node.Left}
	right := types.RangeCond{Op: types.OpLT, Value: node.Right}
	if includeSelf {
		left.Op = types.OpGE
		right.Op = types.OpLE
	}
	rows, err := e.store.FetchByRange(left, right)
	if err != nil {
		return nil, fmt.Errorf("fetching descendants of node %d: %w", id, err)
	}
	sortByLeft(rows)
	return rows, nil
}

// Path returns the ancestors of the given node ordered root-first (by
// level). With includeSelf the node itself closes the path. An unknown
// node yields an empty path.
func (e *Engine) Path(id int64, includeSelf bool) ([]types.NodeRow, error) {
	node, err := e.store.FetchNode(id)
	if errors.Is(err, types.ErrNodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching node %d: %w", id, err)
	}

	left := types.RangeCond{Op: types.OpLT, Value: node.Left}
	right := types.RangeCond{Op: types.OpGT, Value: node.Right}
	if includeSelf {
		left.Op = types.OpLE
		right.Op = types.OpGE
	}
	rows, err := e.store.FetchByRange(left, right)
	if err != nil {
		return nil, fmt.Errorf("fetching path to node %d: %w", id, err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Level < rows[j].Level })
	return rows, nil
}

// IsDescendantOf reports whether descendant sits strictly inside
// ancestor's interval. Unknown IDs on either side yield false.
func (e *Engine) IsDescendantOf(descendant, ancestor int64) (bool, error) {
	a, err := e.store.FetchNode(ancestor)
	if errors.Is(err, types.ErrNodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetching node %d: %w", ancestor, err)
	}

	d, err := e.store.FetchNode(descendant)
	if errors.Is(err, types.ErrNodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetching node %d: %w", descendant, err)
	}

	return d.Left > a.Left && d.Right < a.Right, nil
}

// IsChildOf reports whether child's ParentID equals parent. An unknown
// child yields false.
func (e *Engine) IsChildOf(child, parent int64) (bool, error) {
	c, err := e.store.FetchNode(child)
	if errors.Is(err, types.ErrNodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetching node %d: %w", child, err)
	}
	return c.ParentID == parent, nil
}

// CountDescendants derives the subtree size from the node's bounds without
// touching the subtree. The root reference counts every node; an unknown
// node counts zero. Corrupted bounds surface as ErrInvariantViolation.
func (e *Engine) CountDescendants(ref types.NodeRef) (int64, error) {
	id, ok := ref.ID()
	if !ok {
		rows, err := e.store.FetchAllOrderedBySort()
		if err != nil {
			return 0, fmt.Errorf("fetching forest: %w", err)
		}
		return int64(len(rows)), nil
	}

	node, err := e.store.FetchNode(id)
	if errors.Is(err, types.ErrNodeNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetching node %d: %w", id, err)
	}
	count, err := node.NumDescendants()
	if err != nil {
		return 0, fmt.Errorf("node %d bounds [%d, %d]: %w", id, node.Left, node.Right, err)
	}
	return count, nil
}

// CountChildren counts direct children. The root reference counts the
// effective top-level nodes, consistent with Children.
func (e *Engine) CountChildren(ref types.NodeRef) (int64, error) {
	id, ok := ref.ID()
	if !ok {
		rows, err := e.topLevel()
		if err != nil {
			return 0, err
		}
		return int64(len(rows)), nil
	}
	rows, err := e.store.FetchByParent(id)
	if err != nil {
		return 0, fmt.Errorf("fetching children of node %d: %w", id, err)
	}
	return int64(len(rows)), nil
}

// Family returns the node's siblings (itself included) and direct
// children, deduplicated and in left order. An unknown node degrades to
// the effective top-level nodes.
func (e *Engine) Family(id int64) ([]types.NodeRow, error) {
	node, err := e.store.FetchNode(id)
	if errors.Is(err, types.ErrNodeNotFound) {
		return e.topLevel()
	}
	if err != nil {
		return nil, fmt.Errorf("fetching node %d: %w", id, err)
	}

	siblings, err := e.store.FetchByParent(node.ParentID)
	if err != nil {
		return nil, fmt.Errorf("fetching siblings of node %d: %w", id, err)
	}
	children, err := e.store.FetchByParent(id)
	if err != nil {
		return nil, fmt.Errorf("fetching children of node %d: %w", id, err)
	}

	seen := make(map[int64]bool, len(siblings)+len(children))
	rows := make([]types.NodeRow, 0, len(siblings)+len(children))
	for _, row := range append(siblings, children...) {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		rows = append(rows, row)
	}
	sortByLeft(rows)
	return rows, nil
}

// topLevel returns the effective top-level nodes in left order: rows whose
// ParentID is the root sentinel or references a node that does not exist.
func (e *Engine) topLevel() ([]types.NodeRow, error) {
	all, err := e.store.FetchAllOrderedBySort()
	if err != nil {
		return nil, fmt.Errorf("fetching forest: %w", err)
	}
	ids := make(map[int64]bool, len(all))
	for _, row := range all {
		ids[row.ID] = true
	}
	rows := make([]types.NodeRow, 0)
	for _, row := range all {
		if !ids[row.ParentID] {
			rows = append(rows, row)
		}
	}
	sortByLeft(rows)
	return rows, nil
}

func (e *Engine) allByLeft() ([]types.NodeRow, error) {
	rows, err := e.store.FetchAllOrderedBySort()
	if err != nil {
		return nil, fmt.Errorf("fetching forest: %w", err)
	}
	sortByLeft(rows)
	return rows, nil
}

func sortByLeft(rows []types.NodeRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Left < rows[j].Left })
}
