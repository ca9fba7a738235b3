// Package types defines the node row model, the RecordStore and Store
// interfaces, and standard errors for the arbor nested-set index.
//
// A tree is kept in a flat relation: every node carries a left bound, a
// right bound, and a level such that containment and ancestry reduce to
// integer range comparisons. The types here are shared by the index
// (pkg/index), the query engine (pkg/query), and the storage backends
// (internal/sqlite, internal/memstore).
package types
