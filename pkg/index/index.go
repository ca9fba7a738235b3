// Package index rebuilds nested-set bounds for a tree kept in a flat
// record store.
//
// A rebuild reads the whole forest once, renumbers it in memory with a
// single pre-order walk, diffs the result against the stored bounds, and
// writes back only the rows whose (level, left, right) triple changed.
// The caller owns parent/sort mutations and must serialize rebuilds; the
// index owns the bounds and nothing else.
package index

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Index recomputes and persists nested-set bounds through a RecordStore.
type Index struct {
	store types.RecordStore
	log   zerolog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the structured logger used for rebuild summaries.
func WithLogger(log zerolog.Logger) Option {
	return func(ix *Index) { ix.log = log }
}

// New creates an Index over the given store. Without WithLogger, rebuild
// summaries are discarded.
func New(store types.RecordStore, opts ...Option) *Index {
	ix := &Index{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Report summarizes one rebuild.
type Report struct {
	RunID   string        // UUID v7 identifying the rebuild run.
	Total   int           // Nodes read from the store.
	Changed int           // Nodes whose triple differed from the stored one.
	Written int           // Rows actually written before completion or abort.
	Elapsed time.Duration // Wall time for the whole rebuild.
}

// Rebuild recomputes bounds for the entire forest and writes back the rows
// whose triple changed.
//
// The compute phase is all-or-nothing: a cycle in parent links aborts with
// ErrCycleDetected before any write. The write phase is best-effort per
// row, matching the store's lack of a transaction wrapper: a failing write
// aborts the remaining batch and the returned Report says how far it got.
// Callers needing atomic write-back must wrap Rebuild in a store-level
// transaction.
func (ix *Index) Rebuild() (*Report, error) {
	start := time.Now()
	report := &Report{RunID: newRunID()}

	rows, err := ix.store.FetchAllOrderedBySort()
	if err != nil {
		return report, fmt.Errorf("fetching forest: %w", err)
	}
	report.Total = len(rows)

	updates, err := buildForest(rows).number()
	if err != nil {
		ix.log.Error().Str("run_id", report.RunID).Err(err).Msg("rebuild aborted")
		return report, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	current, err := ix.store.FetchBoundsForIDs(ids)
	if err != nil {
		return report, fmt.Errorf("fetching current bounds: %w", err)
	}

	changed := diffBounds(updates, current)
	report.Changed = len(changed)

	for _, update := range changed {
		if err := ix.store.WriteBounds(update); err != nil {
			report.Elapsed = time.Since(start)
			ix.log.Error().Str("run_id", report.RunID).Int64("node_id", update.ID).
				Err(err).Msg("write-back aborted")
			return report, fmt.Errorf("writing bounds for node %d: %w", update.ID, err)
		}
		report.Written++
	}

	report.Elapsed = time.Since(start)
	ix.log.Info().
		Str("run_id", report.RunID).
		Int("total", report.Total).
		Int("changed", report.Changed).
		Int("written", report.Written).
		Dur("elapsed", report.Elapsed).
		Msg("rebuild complete")
	return report, nil
}

// diffBounds keeps only the updates whose triple differs from the stored
// snapshot. Equality is exact on all three fields; a node with no stored
// triple is always written. Results come back in ID order so write-back is
// deterministic.
func diffBounds(updates map[int64]types.BoundsUpdate, current map[int64]types.Bounds) []types.BoundsUpdate {
	changed := make([]types.BoundsUpdate, 0, len(updates))
	for id, update := range updates {
		cur, ok := current[id]
		if ok && cur.Level == update.Level && cur.Left == update.Left && cur.Right == update.Right {
			continue
		}
		changed = append(changed, update)
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].ID < changed[j].ID })
	return changed
}

// newRunID generates a UUID v7 string identifying one rebuild run.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
