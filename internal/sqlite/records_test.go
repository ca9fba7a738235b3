package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func TestNodeCRUD(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	id, err := r.CreateNode(0, 5, map[string]any{"name": "projects", "pinned": true})
	require.NoError(t, err)
	assert.Positive(t, id)

	row, err := r.FetchNode(id)
	require.NoError(t, err)
	assert.Equal(t, id, row.ID)
	assert.Equal(t, int64(0), row.ParentID)
	assert.Equal(t, int64(5), row.SortKey)
	assert.Equal(t, "projects", row.Attrs["name"])
	assert.Equal(t, true, row.Attrs["pinned"])

	require.NoError(t, r.SetParent(id, 7))
	require.NoError(t, r.SetSortKey(id, 9))
	row, err = r.FetchNode(id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), row.ParentID)
	assert.Equal(t, int64(9), row.SortKey)

	require.NoError(t, r.DeleteNode(id))
	_, err = r.FetchNode(id)
	require.ErrorIs(t, err, types.ErrNodeNotFound)
}

func TestEditorUnknownNode(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	require.ErrorIs(t, r.SetParent(42, 0), types.ErrNodeNotFound)
	require.ErrorIs(t, r.SetSortKey(42, 1), types.ErrNodeNotFound)
	require.ErrorIs(t, r.DeleteNode(42), types.ErrNodeNotFound)
	require.ErrorIs(t, r.WriteBounds(types.BoundsUpdate{ID: 42, Level: 1, Left: 1, Right: 2}), types.ErrNodeNotFound)
}

func TestFetchByParentOrdering(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	late, err := r.CreateNode(0, 9, nil)
	require.NoError(t, err)
	early, err := r.CreateNode(0, 1, nil)
	require.NoError(t, err)
	tieA, err := r.CreateNode(0, 5, nil)
	require.NoError(t, err)
	tieB, err := r.CreateNode(0, 5, nil)
	require.NoError(t, err)

	rows, err := r.FetchByParent(0)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, early, rows[0].ID)
	assert.Equal(t, tieA, rows[1].ID, "sort key ties break by id")
	assert.Equal(t, tieB, rows[2].ID)
	assert.Equal(t, late, rows[3].ID)
}

func TestFetchByRangeOperators(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	outer, err := r.CreateNode(0, 1, nil)
	require.NoError(t, err)
	inner, err := r.CreateNode(outer, 1, nil)
	require.NoError(t, err)
	require.NoError(t, r.WriteBounds(types.BoundsUpdate{ID: outer, Level: 1, Left: 1, Right: 4}))
	require.NoError(t, r.WriteBounds(types.BoundsUpdate{ID: inner, Level: 2, Left: 2, Right: 3}))

	rows, err := r.FetchByRange(
		types.RangeCond{Op: types.OpGT, Value: 1},
		types.RangeCond{Op: types.OpLT, Value: 4})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inner, rows[0].ID)

	rows, err = r.FetchByRange(
		types.RangeCond{Op: types.OpGE, Value: 1},
		types.RangeCond{Op: types.OpLE, Value: 4})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = r.FetchByRange(
		types.RangeCond{Op: types.CompareOp("; DROP TABLE nodes"), Value: 1},
		types.RangeCond{Op: types.OpLT, Value: 4})
	require.Error(t, err, "operators outside the whitelist are rejected")
}

func TestFetchBoundsForIDs(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	id, err := r.CreateNode(0, 1, nil)
	require.NoError(t, err)
	require.NoError(t, r.WriteBounds(types.BoundsUpdate{ID: id, Level: 1, Left: 1, Right: 2}))

	bounds, err := r.FetchBoundsForIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, bounds)

	bounds, err = r.FetchBoundsForIDs([]int64{id, 999})
	require.NoError(t, err)
	require.Len(t, bounds, 1)
	assert.Equal(t, types.Bounds{Level: 1, Left: 1, Right: 2}, bounds[id])
}

func TestAttrsPassThroughUnmodified(t *testing.T) {
	b := setupBackend(t)
	r := editor(t, b)

	attrs := map[string]any{
		"name":  "inbox",
		"tags":  []any{"a", "b"},
		"depth": float64(3),
	}
	id, err := r.CreateNode(0, 1, attrs)
	require.NoError(t, err)

	row, err := r.FetchNode(id)
	require.NoError(t, err)
	assert.Equal(t, attrs, row.Attrs)
}
