// Shared helpers for arbor CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// editor returns the mutation surface of the attached backend. Both
// shipped backends provide one.
func editor() (types.NodeEditor, error) {
	ed, ok := records.(types.NodeEditor)
	if !ok {
		return nil, fmt.Errorf("backend does not support node edits")
	}
	return ed, nil
}

// parseID parses a positional node ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid node id %q", arg)
	}
	return id, nil
}

// parseAttrs parses repeated key=value pairs into an attribute map.
// Values that parse as JSON keep their structure; anything else is a
// plain string.
func parseAttrs(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	attrs := make(map[string]any, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid attribute %q (expected key=value)", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(parts[1]), &parsed); err != nil {
			parsed = parts[1]
		}
		attrs[parts[0]] = parsed
	}
	return attrs, nil
}

// printRows renders a row set as JSON or as an indented tree listing.
func printRows(rows []types.NodeRow) error {
	if flagJSON {
		return printJSON(rows)
	}
	for _, row := range rows {
		indent := strings.Repeat("  ", int(max64(row.Level-1, 0)))
		fmt.Printf("%s%d  parent=%d sort=%d bounds=[%d,%d] level=%d\n",
			indent, row.ID, row.ParentID, row.SortKey, row.Left, row.Right, row.Level)
	}
	return nil
}

// printJSON renders any value as indented JSON.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
