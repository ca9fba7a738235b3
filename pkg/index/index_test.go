package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/internal/memstore"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

// setupStore creates an attached in-memory store with a deferred detach.
func setupStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { s.Detach() })
	return s
}

// mustCreate inserts a node and fails the test on error.
func mustCreate(t *testing.T, s *memstore.Store, parentID, sortKey int64) int64 {
	t.Helper()
	id, err := s.CreateNode(parentID, sortKey, nil)
	require.NoError(t, err)
	return id
}

// requireBounds asserts one node's stored triple.
func requireBounds(t *testing.T, s *memstore.Store, id, level, left, right int64) {
	t.Helper()
	row, err := s.FetchNode(id)
	require.NoError(t, err)
	assert.Equal(t, level, row.Level, "node %d level", id)
	assert.Equal(t, left, row.Left, "node %d left", id)
	assert.Equal(t, right, row.Right, "node %d right", id)
}

func TestRebuildConcreteScenario(t *testing.T) {
	s := setupStore(t)

	// Forest {1:root, 2:parent=1, 3:parent=1, 4:parent=2}, sort keys = id.
	mustCreate(t, s, 0, 1) // 1
	mustCreate(t, s, 1, 2) // 2
	mustCreate(t, s, 1, 3) // 3
	mustCreate(t, s, 2, 4) // 4

	report, err := New(s).Rebuild()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 4, report.Changed)
	assert.Equal(t, 4, report.Written)
	assert.NotEmpty(t, report.RunID)

	requireBounds(t, s, 1, 1, 1, 8)
	requireBounds(t, s, 2, 2, 2, 5)
	requireBounds(t, s, 4, 3, 3, 4)
	requireBounds(t, s, 3, 2, 6, 7)

	row, err := s.FetchNode(1)
	require.NoError(t, err)
	count, err := row.NumDescendants()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRebuildIsIdempotent(t *testing.T) {
	s := setupStore(t)
	mustCreate(t, s, 0, 1)
	mustCreate(t, s, 1, 2)
	mustCreate(t, s, 1, 3)
	mustCreate(t, s, 2, 4)

	ix := New(s)
	_, err := ix.Rebuild()
	require.NoError(t, err)

	// No parent/sort changes in between: the diff must be empty.
	report, err := ix.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Zero(t, report.Changed)
	assert.Zero(t, report.Written)
}

func TestRebuildMinimalWriteBack(t *testing.T) {
	s := setupStore(t)

	// Two independent top-level subtrees: a with three children, b with one.
	a := mustCreate(t, s, 0, 1)
	c1 := mustCreate(t, s, a, 1)
	c2 := mustCreate(t, s, a, 2)
	c3 := mustCreate(t, s, a, 3)
	b := mustCreate(t, s, 0, 2)
	d := mustCreate(t, s, b, 1)

	ix := New(s)
	_, err := ix.Rebuild()
	require.NoError(t, err)

	// Moving the last sibling to the front shifts only the three siblings.
	// The parent's interval and the unrelated subtree keep their bounds.
	require.NoError(t, s.SetSortKey(c3, 0))
	report, err := ix.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, 3, report.Changed)
	assert.Equal(t, 3, report.Written)

	requireBounds(t, s, c3, 2, 2, 3)
	requireBounds(t, s, c1, 2, 4, 5)
	requireBounds(t, s, c2, 2, 6, 7)
	requireBounds(t, s, a, 1, 1, 8)
	requireBounds(t, s, b, 1, 9, 12)
	requireBounds(t, s, d, 2, 10, 11)
}

func TestRebuildDanglingParentAttachesToRoot(t *testing.T) {
	s := setupStore(t)
	mustCreate(t, s, 0, 1)
	mustCreate(t, s, 1, 2)
	// The orphan's parent never existed.
	orphan := mustCreate(t, s, 999, 3)

	_, err := New(s).Rebuild()
	require.NoError(t, err)

	row, err := s.FetchNode(orphan)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.Level, "orphan should number as top-level")

	require.NoError(t, Verify(s))
}

func TestRebuildDetectsSelfParentCycle(t *testing.T) {
	s := setupStore(t)
	id := mustCreate(t, s, 0, 1)
	other := mustCreate(t, s, 0, 2)
	require.NoError(t, s.SetParent(id, id))

	report, err := New(s).Rebuild()
	require.ErrorIs(t, err, types.ErrCycleDetected)
	assert.Zero(t, report.Written, "cycle must abort before any write")

	// The healthy node keeps whatever bounds it had (none yet).
	requireBounds(t, s, other, 0, 0, 0)
}

func TestRebuildDetectsTwoNodeCycle(t *testing.T) {
	s := setupStore(t)
	a := mustCreate(t, s, 0, 1)
	b := mustCreate(t, s, a, 2)
	mustCreate(t, s, 0, 3)
	require.NoError(t, s.SetParent(a, b))

	report, err := New(s).Rebuild()
	require.ErrorIs(t, err, types.ErrCycleDetected)
	assert.Zero(t, report.Written)
}

func TestRebuildEmptyForest(t *testing.T) {
	s := setupStore(t)

	report, err := New(s).Rebuild()
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.Zero(t, report.Written)
}

func TestRebuildSiblingTiesBreakByID(t *testing.T) {
	s := setupStore(t)
	first := mustCreate(t, s, 0, 5)
	second := mustCreate(t, s, 0, 5)

	_, err := New(s).Rebuild()
	require.NoError(t, err)

	requireBounds(t, s, first, 1, 1, 2)
	requireBounds(t, s, second, 1, 3, 4)
}

func TestRebuildPropertiesOnDeepForest(t *testing.T) {
	s := setupStore(t)

	// A chain, a bushy subtree, a second root, and an orphan.
	chain := mustCreate(t, s, 0, 1)
	parent := chain
	for i := 0; i < 10; i++ {
		parent = mustCreate(t, s, parent, 1)
	}
	bush := mustCreate(t, s, 0, 2)
	for i := 0; i < 8; i++ {
		child := mustCreate(t, s, bush, int64(i))
		mustCreate(t, s, child, 1)
	}
	mustCreate(t, s, 12345, 3)

	_, err := New(s).Rebuild()
	require.NoError(t, err)

	rows, err := s.FetchAllOrderedBySort()
	require.NoError(t, err)

	// Maximum emitted counter value is 2*N+1, with the root holding 0.
	var maxRight int64
	for _, row := range rows {
		if row.Right > maxRight {
			maxRight = row.Right
		}
	}
	assert.Equal(t, int64(2*len(rows)), maxRight)

	require.NoError(t, VerifyRows(rows))
}

func TestDiffBoundsWritesUnseenNodes(t *testing.T) {
	updates := map[int64]types.BoundsUpdate{
		1: {ID: 1, Level: 1, Left: 1, Right: 4},
		2: {ID: 2, Level: 2, Left: 2, Right: 3},
	}
	current := map[int64]types.Bounds{
		1: {Level: 1, Left: 1, Right: 4},
		// Node 2 has never been persisted: no snapshot entry.
	}

	changed := diffBounds(updates, current)
	require.Len(t, changed, 1)
	assert.Equal(t, int64(2), changed[0].ID)
}
