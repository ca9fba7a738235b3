package query

import "github.com/mesh-intelligence/arbor/pkg/types"

// DescendantsFromSnapshot derives the subtree of id from an
// already-fetched flat snapshot, without touching storage. It yields the
// same ID set as Descendants with includeSelf=true, in pre-order over the
// snapshot's (SortKey, ID) sibling order.
//
// Recursion is driven by the actual presence of matching children in the
// snapshot, never by a cached child counter, so a counter that drifted out
// of sync cannot silently truncate the walk. A visited guard keeps
// malformed snapshots with parent loops from recursing forever.
func DescendantsFromSnapshot(snapshot []types.NodeRow, id int64) []types.NodeRow {
	byParent := make(map[int64][]types.NodeRow, len(snapshot))
	for _, row := range snapshot {
		byParent[row.ParentID] = append(byParent[row.ParentID], row)
	}

	rows := make([]types.NodeRow, 0)
	for _, row := range snapshot {
		if row.ID == id {
			rows = append(rows, row)
			break
		}
	}
	visited := map[int64]bool{id: true}
	return collectDescendants(byParent, id, visited, rows)
}

// collectDescendants appends the children of parent and recurses into each
// child that itself has children in the snapshot index.
func collectDescendants(byParent map[int64][]types.NodeRow, parent int64, visited map[int64]bool, rows []types.NodeRow) []types.NodeRow {
	for _, child := range byParent[parent] {
		if visited[child.ID] {
			continue
		}
		visited[child.ID] = true
		rows = append(rows, child)
		if len(byParent[child.ID]) > 0 {
			rows = collectDescendants(byParent, child.ID, visited, rows)
		}
	}
	return rows
}
