package types

// NodeEditor is the optional mutation surface a backend may provide next to
// RecordStore. The core never calls it; it exists for callers (such as the
// arbor CLI) that own the parent/sort relationships. Structural edits do
// not touch bounds; callers run a rebuild afterwards.
type NodeEditor interface {
	// CreateNode inserts a node under parentID with the given sort key and
	// opaque attributes, returning the assigned ID. The parent is not
	// required to exist; a dangling parent attaches the node under the
	// synthetic root at the next rebuild.
	CreateNode(parentID, sortKey int64, attrs map[string]any) (int64, error)

	// SetParent reparents a node. Returns ErrNodeNotFound if the node
	// does not exist.
	SetParent(id, parentID int64) error

	// SetSortKey changes a node's sibling ordering key.
	// Returns ErrNodeNotFound if the node does not exist.
	SetSortKey(id, sortKey int64) error

	// DeleteNode removes a single node. Its children keep their ParentID
	// and surface as top-level nodes after the next rebuild.
	// Returns ErrNodeNotFound if the node does not exist.
	DeleteNode(id int64) error
}
