package index

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Verify checks the nested-set invariants over every row in the store.
// It returns nil when the bounds are consistent, or an error wrapping
// ErrInvariantViolation naming the first offending node. A failure means
// the bounds were corrupted outside a rebuild or the numbering has a bug.
func Verify(store types.RecordStore) error {
	rows, err := store.FetchAllOrderedBySort()
	if err != nil {
		return fmt.Errorf("fetching forest: %w", err)
	}
	return VerifyRows(rows)
}

// VerifyRows checks the nested-set invariants over an already-fetched row
// set: odd interval widths, strict containment or disjointness for every
// pair, level equal to the number of strict ancestors, parents preceding
// children in left order, and subtree sizes matching the derived
// descendant counts.
func VerifyRows(rows []types.NodeRow) error {
	byLeft := make([]types.NodeRow, len(rows))
	copy(byLeft, rows)
	sort.Slice(byLeft, func(i, j int) bool { return byLeft[i].Left < byLeft[j].Left })

	ids := make(map[int64]bool, len(rows))
	for _, row := range rows {
		ids[row.ID] = true
	}

	// Stack of open intervals: the strict ancestors of the current row.
	var stack []types.NodeRow

	for i, row := range byLeft {
		want, err := row.NumDescendants()
		if err != nil {
			return fmt.Errorf("node %d bounds [%d, %d]: %w", row.ID, row.Left, row.Right, err)
		}

		for len(stack) > 0 && stack[len(stack)-1].Right < row.Left {
			stack = stack[:len(stack)-1]
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if !(top.Left < row.Left && top.Right > row.Right) {
				return fmt.Errorf("%w: node %d [%d, %d] partially overlaps node %d [%d, %d]",
					types.ErrInvariantViolation, row.ID, row.Left, row.Right, top.ID, top.Left, top.Right)
			}
			if row.ParentID != top.ID {
				return fmt.Errorf("%w: node %d enclosed by node %d but has parent %d",
					types.ErrInvariantViolation, row.ID, top.ID, row.ParentID)
			}
		} else if ids[row.ParentID] {
			return fmt.Errorf("%w: node %d has existing parent %d but no enclosing interval",
				types.ErrInvariantViolation, row.ID, row.ParentID)
		}

		if wantLevel := int64(len(stack)) + 1; row.Level != wantLevel {
			return fmt.Errorf("%w: node %d at level %d, expected %d",
				types.ErrInvariantViolation, row.ID, row.Level, wantLevel)
		}

		// Rows are left-sorted, so a subtree is the contiguous run of rows
		// whose left bound falls inside this interval.
		end := sort.Search(len(byLeft), func(j int) bool { return byLeft[j].Left > row.Right })
		if got := int64(end - i - 1); got != want {
			return fmt.Errorf("%w: node %d spans %d nodes but bounds derive %d descendants",
				types.ErrInvariantViolation, row.ID, end-i-1, want)
		}

		stack = append(stack, row)
	}
	return nil
}
