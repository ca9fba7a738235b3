package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// CreateNode inserts a node under parentID and returns the assigned ID.
// Bounds start at zero and stay meaningless until the next rebuild.
func (r *Records) CreateNode(parentID, sortKey int64, attrs map[string]any) (int64, error) {
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	if !r.backend.attached {
		return 0, types.ErrStoreDetached
	}
	attrsJSON := "{}"
	if len(attrs) > 0 {
		data, err := json.Marshal(attrs)
		if err != nil {
			return 0, fmt.Errorf("encoding node attrs: %w", err)
		}
		attrsJSON = string(data)
	}

	res, err := r.backend.db.Exec(
		"INSERT INTO nodes (parent_id, sort_key, attrs) VALUES (?, ?, ?)",
		parentID, sortKey, attrsJSON)
	if err != nil {
		return 0, fmt.Errorf("inserting node: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting node: %w", err)
	}
	return id, nil
}

// SetParent reparents a node.
// Returns ErrNodeNotFound if the node does not exist.
func (r *Records) SetParent(id, parentID int64) error {
	return r.updateColumn(id, "parent_id", parentID)
}

// SetSortKey changes a node's sibling ordering key.
// Returns ErrNodeNotFound if the node does not exist.
func (r *Records) SetSortKey(id, sortKey int64) error {
	return r.updateColumn(id, "sort_key", sortKey)
}

// DeleteNode removes a single node. Children keep their ParentID and
// surface as top-level nodes after the next rebuild.
func (r *Records) DeleteNode(id int64) error {
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	if !r.backend.attached {
		return types.ErrStoreDetached
	}
	res, err := r.backend.db.Exec("DELETE FROM nodes WHERE node_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting node %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting node %d: %w", id, err)
	}
	if affected == 0 {
		return types.ErrNodeNotFound
	}
	return nil
}

// updateColumn writes one caller-owned column. The column name is a
// compile-time constant at every call site, never caller input.
func (r *Records) updateColumn(id int64, column string, value int64) error {
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	if !r.backend.attached {
		return types.ErrStoreDetached
	}
	res, err := r.backend.db.Exec(
		"UPDATE nodes SET "+column+" = ? WHERE node_id = ?", value, id)
	if err != nil {
		return fmt.Errorf("updating node %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating node %d: %w", id, err)
	}
	if affected == 0 {
		return types.ErrNodeNotFound
	}
	return nil
}
