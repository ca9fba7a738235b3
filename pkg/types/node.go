package types

import "errors"

// RootID is the parent_id sentinel for top-level nodes. No real node ever
// has this ID; the synthetic root that carries it is never persisted.
const RootID int64 = 0

// NodeRow is one entry of the hierarchy as it exists in storage.
//
// ID, ParentID, SortKey and Attrs are owned by the caller; Left, Right and
// Level are owned by the index and only the rebuild writes them. Attrs is
// an opaque bag passed through storage unmodified; the core never reads it.
type NodeRow struct {
	ID       int64          // Unique positive identity, assigned by the store.
	ParentID int64          // ID of the containing node, RootID for top-level nodes.
	SortKey  int64          // Sibling ordering; ties broken by ID.
	Left     int64          // Nested-set left bound.
	Right    int64          // Nested-set right bound.
	Level    int64          // Depth below the synthetic root (top-level nodes are 1).
	Attrs    map[string]any // Caller-defined attributes, opaque to the core.
}

// Bounds is the (level, left, right) triple owned by the index.
type Bounds struct {
	Level int64
	Left  int64
	Right int64
}

// BoundsUpdate is one write produced by the rebuild diff: the full triple
// for a single node, applied atomically as one row update.
type BoundsUpdate struct {
	ID    int64
	Level int64
	Left  int64
	Right int64
}

// Bounds returns the triple carried by the row.
func (n NodeRow) Bounds() Bounds {
	return Bounds{Level: n.Level, Left: n.Left, Right: n.Right}
}

// NumDescendants derives the subtree size from the bounds:
// (right - left - 1) / 2. Returns ErrInvariantViolation when the width is
// even, which can only happen on corrupted bounds.
func (n NodeRow) NumDescendants() (int64, error) {
	width := n.Right - n.Left - 1
	if width < 0 || width%2 != 0 {
		return 0, ErrInvariantViolation
	}
	return width / 2, nil
}

// Node errors.
var (
	// ErrNodeNotFound reports a lookup for an ID absent from the store.
	// Query operations degrade to per-operation defaults instead of
	// surfacing it; backends return it from direct fetches.
	ErrNodeNotFound = errors.New("node not found")

	// ErrCycleDetected reports a cycle in parent links found during
	// numbering. The rebuild aborts without writing anything.
	ErrCycleDetected = errors.New("cycle detected in parent links")

	// ErrInvariantViolation reports bounds that cannot have been produced
	// by a correct numbering pass. It signals a bug or external tampering,
	// never a caller mistake.
	ErrInvariantViolation = errors.New("nested-set invariant violated")
)
