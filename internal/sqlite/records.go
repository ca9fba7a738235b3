package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// nodeColumns is the column list every node SELECT uses, matching scanNode.
const nodeColumns = "node_id, parent_id, sort_key, lft, rgt, level, attrs"

// Records implements types.RecordStore and types.NodeEditor over the
// backend's database. Comparison operators come from a fixed whitelist and
// every value travels as a bind parameter, so no caller input ever reaches
// query text.
type Records struct {
	backend *Backend
}

// FetchNode returns the row with the given ID.
// Returns ErrNodeNotFound if no such row exists.
func (r *Records) FetchNode(id int64) (types.NodeRow, error) {
	r.backend.mu.RLock()
	defer r.backend.mu.RUnlock()

	if !r.backend.attached {
		return types.NodeRow{}, types.ErrStoreDetached
	}
	row := r.backend.db.QueryRow(
		"SELECT "+nodeColumns+" FROM nodes WHERE node_id = ?", id)
	return scanNode(row)
}

// FetchByParent returns every row with the given ParentID in
// (SortKey, ID) order.
func (r *Records) FetchByParent(parentID int64) ([]types.NodeRow, error) {
	r.backend.mu.RLock()
	defer r.backend.mu.RUnlock()

	if !r.backend.attached {
		return nil, types.ErrStoreDetached
	}
	rows, err := r.backend.db.Query(
		"SELECT "+nodeColumns+" FROM nodes WHERE parent_id = ? ORDER BY sort_key, node_id", parentID)
	if err != nil {
		return nil, fmt.Errorf("querying children of %d: %w", parentID, err)
	}
	return scanNodes(rows)
}

// FetchByRange returns every row whose left bound satisfies left and whose
// right bound satisfies right.
func (r *Records) FetchByRange(left, right types.RangeCond) ([]types.NodeRow, error) {
	r.backend.mu.RLock()
	defer r.backend.mu.RUnlock()

	if !r.backend.attached {
		return nil, types.ErrStoreDetached
	}
	leftOp, err := sqlOp(left.Op)
	if err != nil {
		return nil, err
	}
	rightOp, err := sqlOp(right.Op)
	if err != nil {
		return nil, err
	}
	rows, err := r.backend.db.Query(
		"SELECT "+nodeColumns+" FROM nodes WHERE lft "+leftOp+" ? AND rgt "+rightOp+" ?",
		left.Value, right.Value)
	if err != nil {
		return nil, fmt.Errorf("querying bounds range: %w", err)
	}
	return scanNodes(rows)
}

// FetchAllOrderedBySort returns every row in (SortKey, ID) order.
func (r *Records) FetchAllOrderedBySort() ([]types.NodeRow, error) {
	r.backend.mu.RLock()
	defer r.backend.mu.RUnlock()

	if !r.backend.attached {
		return nil, types.ErrStoreDetached
	}
	rows, err := r.backend.db.Query(
		"SELECT " + nodeColumns + " FROM nodes ORDER BY sort_key, node_id")
	if err != nil {
		return nil, fmt.Errorf("querying all nodes: %w", err)
	}
	return scanNodes(rows)
}

// FetchBoundsForIDs returns the stored triples for the given IDs. Unknown
// IDs are omitted.
func (r *Records) FetchBoundsForIDs(ids []int64) (map[int64]types.Bounds, error) {
	r.backend.mu.RLock()
	defer r.backend.mu.RUnlock()

	if !r.backend.attached {
		return nil, types.ErrStoreDetached
	}
	bounds := make(map[int64]types.Bounds, len(ids))
	if len(ids) == 0 {
		return bounds, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.backend.db.Query(
		"SELECT node_id, level, lft, rgt FROM nodes WHERE node_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying bounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var b types.Bounds
		if err := rows.Scan(&id, &b.Level, &b.Left, &b.Right); err != nil {
			return nil, fmt.Errorf("scanning bounds: %w", err)
		}
		bounds[id] = b
	}
	return bounds, rows.Err()
}

// WriteBounds persists one triple as a single row update.
// Returns ErrNodeNotFound if the row does not exist.
func (r *Records) WriteBounds(update types.BoundsUpdate) error {
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	if !r.backend.attached {
		return types.ErrStoreDetached
	}
	res, err := r.backend.db.Exec(
		"UPDATE nodes SET level = ?, lft = ?, rgt = ? WHERE node_id = ?",
		update.Level, update.Left, update.Right, update.ID)
	if err != nil {
		return fmt.Errorf("updating bounds for node %d: %w", update.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating bounds for node %d: %w", update.ID, err)
	}
	if affected == 0 {
		return types.ErrNodeNotFound
	}
	return nil
}

// sqlOp maps a RangeCond operator onto SQL. Operators outside the
// whitelist are rejected, never interpolated.
func sqlOp(op types.CompareOp) (string, error) {
	switch op {
	case types.OpGT:
		return ">", nil
	case types.OpGE:
		return ">=", nil
	case types.OpLT:
		return "<", nil
	case types.OpLE:
		return "<=", nil
	default:
		return "", fmt.Errorf("unsupported comparison operator %q", op)
	}
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (types.NodeRow, error) {
	var n types.NodeRow
	var attrsJSON string
	err := row.Scan(&n.ID, &n.ParentID, &n.SortKey, &n.Left, &n.Right, &n.Level, &attrsJSON)
	if err == sql.ErrNoRows {
		return types.NodeRow{}, types.ErrNodeNotFound
	}
	if err != nil {
		return types.NodeRow{}, fmt.Errorf("scanning node: %w", err)
	}
	if attrsJSON != "" && attrsJSON != "{}" {
		if err := json.Unmarshal([]byte(attrsJSON), &n.Attrs); err != nil {
			return types.NodeRow{}, fmt.Errorf("parsing node %d attrs: %w", n.ID, err)
		}
	}
	return n, nil
}

func scanNodes(rows *sql.Rows) ([]types.NodeRow, error) {
	defer rows.Close()

	nodes := make([]types.NodeRow, 0)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
