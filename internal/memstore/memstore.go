// Package memstore implements an in-memory storage backend for arbor.
// It backs the core package tests and serves embedders that want a tree
// index without a database file.
package memstore

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Store implements types.Store, types.RecordStore and types.NodeEditor
// over a plain map. All operations copy rows on the way in and out, so
// callers never alias internal state.
type Store struct {
	mu       sync.RWMutex
	attached bool
	nextID   int64
	nodes    map[int64]types.NodeRow
}

// New creates a detached in-memory store. Call Attach before use.
func New() *Store {
	return &Store{}
}

// Attach initializes the store. The config is validated but DataDir is
// ignored; nothing is persisted. Returns ErrAlreadyAttached if called
// while attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	s.nodes = make(map[int64]types.NodeRow)
	s.nextID = 1
	s.attached = true
	return nil
}

// Detach drops all state. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = nil
	s.attached = false
	return nil
}

// Records returns the RecordStore surface.
// Returns ErrStoreDetached if the store is not attached.
func (s *Store) Records() (types.RecordStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	return s, nil
}

// FetchNode returns the row with the given ID.
func (s *Store) FetchNode(id int64) (types.NodeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.NodeRow{}, types.ErrStoreDetached
	}
	row, ok := s.nodes[id]
	if !ok {
		return types.NodeRow{}, types.ErrNodeNotFound
	}
	return copyRow(row), nil
}

// FetchByParent returns every row with the given ParentID in (SortKey, ID)
// order.
func (s *Store) FetchByParent(parentID int64) ([]types.NodeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	rows := make([]types.NodeRow, 0)
	for _, row := range s.nodes {
		if row.ParentID == parentID {
			rows = append(rows, copyRow(row))
		}
	}
	sortBySortKey(rows)
	return rows, nil
}

// FetchByRange returns every row whose Left satisfies left and whose Right
// satisfies right.
func (s *Store) FetchByRange(left, right types.RangeCond) ([]types.NodeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	rows := make([]types.NodeRow, 0)
	for _, row := range s.nodes {
		if left.Matches(row.Left) && right.Matches(row.Right) {
			rows = append(rows, copyRow(row))
		}
	}
	return rows, nil
}

// FetchAllOrderedBySort returns every row in (SortKey, ID) order.
func (s *Store) FetchAllOrderedBySort() ([]types.NodeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	rows := make([]types.NodeRow, 0, len(s.nodes))
	for _, row := range s.nodes {
		rows = append(rows, copyRow(row))
	}
	sortBySortKey(rows)
	return rows, nil
}

// FetchBoundsForIDs returns stored triples for the given IDs, omitting
// unknown IDs.
func (s *Store) FetchBoundsForIDs(ids []int64) (map[int64]types.Bounds, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	bounds := make(map[int64]types.Bounds, len(ids))
	for _, id := range ids {
		if row, ok := s.nodes[id]; ok {
			bounds[id] = row.Bounds()
		}
	}
	return bounds, nil
}

// WriteBounds updates one row's triple.
func (s *Store) WriteBounds(update types.BoundsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	row, ok := s.nodes[update.ID]
	if !ok {
		return types.ErrNodeNotFound
	}
	row.Level = update.Level
	row.Left = update.Left
	row.Right = update.Right
	s.nodes[update.ID] = row
	return nil
}

// CreateNode inserts a node and returns its assigned ID.
func (s *Store) CreateNode(parentID, sortKey int64, attrs map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return 0, types.ErrStoreDetached
	}
	id := s.nextID
	s.nextID++
	s.nodes[id] = types.NodeRow{
		ID:       id,
		ParentID: parentID,
		SortKey:  sortKey,
		Attrs:    copyAttrs(attrs),
	}
	return id, nil
}

// SetParent reparents a node.
func (s *Store) SetParent(id, parentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	row, ok := s.nodes[id]
	if !ok {
		return types.ErrNodeNotFound
	}
	row.ParentID = parentID
	s.nodes[id] = row
	return nil
}

// SetSortKey changes a node's sibling ordering key.
func (s *Store) SetSortKey(id, sortKey int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	row, ok := s.nodes[id]
	if !ok {
		return types.ErrNodeNotFound
	}
	row.SortKey = sortKey
	s.nodes[id] = row
	return nil
}

// DeleteNode removes a single node; children keep their ParentID.
func (s *Store) DeleteNode(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if _, ok := s.nodes[id]; !ok {
		return types.ErrNodeNotFound
	}
	delete(s.nodes, id)
	return nil
}

func sortBySortKey(rows []types.NodeRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SortKey != rows[j].SortKey {
			return rows[i].SortKey < rows[j].SortKey
		}
		return rows[i].ID < rows[j].ID
	})
}

func copyRow(row types.NodeRow) types.NodeRow {
	row.Attrs = copyAttrs(row.Attrs)
	return row
}

func copyAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
