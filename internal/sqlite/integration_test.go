// End-to-end coverage: the index and query engine running against the
// SQLite backend instead of the in-memory store.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/index"
	"github.com/mesh-intelligence/arbor/pkg/query"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

func TestRebuildAndQueryOverSQLite(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	n1, err := r.CreateNode(0, 1, map[string]any{"name": "root"})
	require.NoError(t, err)
	n2, err := r.CreateNode(n1, 1, nil)
	require.NoError(t, err)
	n3, err := r.CreateNode(n1, 2, nil)
	require.NoError(t, err)
	n4, err := r.CreateNode(n2, 1, nil)
	require.NoError(t, err)

	ix := index.New(r)
	report, err := ix.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 4, report.Written)

	row, err := r.FetchNode(n1)
	require.NoError(t, err)
	assert.Equal(t, types.Bounds{Level: 1, Left: 1, Right: 8}, row.Bounds())

	e := query.New(r)
	isDesc, err := e.IsDescendantOf(n4, n1)
	require.NoError(t, err)
	assert.True(t, isDesc)

	isChild, err := e.IsChildOf(n4, n2)
	require.NoError(t, err)
	assert.True(t, isChild)

	isChild, err = e.IsChildOf(n4, n1)
	require.NoError(t, err)
	assert.False(t, isChild)

	count, err := e.CountDescendants(types.Ref(n1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, index.Verify(r))

	// A second rebuild with no structural changes writes nothing.
	report, err = ix.Rebuild()
	require.NoError(t, err)
	assert.Zero(t, report.Written)

	// Moving a subtree and rebuilding restores the invariants.
	require.NoError(t, r.SetParent(n4, n3))
	report, err = ix.Rebuild()
	require.NoError(t, err)
	assert.Positive(t, report.Written)
	require.NoError(t, index.Verify(r))

	rows, err := e.Children(types.Ref(n3), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n4, rows[0].ID)
}

func TestDanglingParentSurfacesAtTopLevel(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	_, err := r.CreateNode(0, 1, nil)
	require.NoError(t, err)
	orphan, err := r.CreateNode(999, 2, nil)
	require.NoError(t, err)

	_, err = index.New(r).Rebuild()
	require.NoError(t, err)

	rows, err := query.New(r).Children(types.RootRef(), false)
	require.NoError(t, err)
	assert.Contains(t, idsOf(rows), orphan)
}

func idsOf(rows []types.NodeRow) []int64 {
	out := make([]int64, len(rows))
	for i, row := range rows {
		out[i] = row.ID
	}
	return out
}
