package types

import "errors"

// CompareOp selects the comparison applied by one side of a range fetch.
type CompareOp string

// Comparison operators for RangeCond.
const (
	OpGT CompareOp = ">"
	OpGE CompareOp = ">="
	OpLT CompareOp = "<"
	OpLE CompareOp = "<="
)

// RangeCond is one half of a bounds predicate: the column it applies to is
// fixed by position in FetchByRange (first condition on Left, second on
// Right), so only the operator and the comparison value vary.
type RangeCond struct {
	Op    CompareOp
	Value int64
}

// Matches reports whether v satisfies the condition.
func (c RangeCond) Matches(v int64) bool {
	switch c.Op {
	case OpGT:
		return v > c.Value
	case OpGE:
		return v >= c.Value
	case OpLT:
		return v < c.Value
	case OpLE:
		return v <= c.Value
	default:
		return false
	}
}

// RecordStore is the narrow storage surface the index and query engine
// depend on. Implementations own safe parameterization; callers never see
// or build query text. All calls are synchronous and bounded by the
// backend's own timeout policy.
type RecordStore interface {
	// FetchNode returns the row with the given ID.
	// Returns ErrNodeNotFound if no such row exists.
	FetchNode(id int64) (NodeRow, error)

	// FetchByParent returns every row whose ParentID equals parentID,
	// in (SortKey, ID) order. An unknown parent yields an empty slice.
	FetchByParent(parentID int64) ([]NodeRow, error)

	// FetchByRange returns every row whose Left satisfies left and whose
	// Right satisfies right. No ordering is guaranteed; callers sort.
	FetchByRange(left, right RangeCond) ([]NodeRow, error)

	// FetchAllOrderedBySort returns every row ordered by (SortKey, ID).
	FetchAllOrderedBySort() ([]NodeRow, error)

	// FetchBoundsForIDs returns the stored (level, left, right) triples
	// for the given IDs. IDs absent from the store are omitted from the
	// result, never an error.
	FetchBoundsForIDs(ids []int64) (map[int64]Bounds, error)

	// WriteBounds persists one triple as a single atomic row update.
	// Returns ErrNodeNotFound if the row does not exist.
	WriteBounds(update BoundsUpdate) error
}

// Store is the lifecycle wrapper a backend exposes to callers. Callers
// attach with a Config, obtain the RecordStore, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// Records returns the RecordStore surface.
	// Returns ErrStoreDetached if the store is not attached.
	Records() (RecordStore, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
