// Package sqlite implements the SQLite storage backend for arbor.
// One flat, indexed table holds the whole forest; the nested-set bounds
// live next to the caller-owned parent/sort columns so every tree query
// stays a single indexed range scan.
package sqlite

// Schema DDL for the nodes table and its indexes. Attach runs these on
// every open; IF NOT EXISTS keeps existing data intact.
const (
	createNodes = `CREATE TABLE IF NOT EXISTS nodes (
    node_id INTEGER PRIMARY KEY AUTOINCREMENT,
    parent_id INTEGER NOT NULL DEFAULT 0,
    sort_key INTEGER NOT NULL DEFAULT 0,
    lft INTEGER NOT NULL DEFAULT 0,
    rgt INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 0,
    attrs TEXT NOT NULL DEFAULT '{}'
);`

	createParentIndex = `CREATE INDEX IF NOT EXISTS idx_nodes_parent
    ON nodes(parent_id, sort_key, node_id);`

	createBoundsIndex = `CREATE INDEX IF NOT EXISTS idx_nodes_bounds
    ON nodes(lft, rgt);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createNodes,
	createParentIndex,
	createBoundsIndex,
}
