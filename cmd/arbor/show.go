// Show command prints one node with its derived position in the tree.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/query"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a node and its derived counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := attachStore(); err != nil {
			return err
		}
		row, err := records.FetchNode(id)
		if errors.Is(err, types.ErrNodeNotFound) {
			return fmt.Errorf("node %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}

		engine := query.New(records)
		descendants, err := engine.CountDescendants(types.Ref(id))
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}
		children, err := engine.CountChildren(types.Ref(id))
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}
		path, err := engine.Path(id, false)
		if err != nil {
			return fmt.Errorf("show: %w", err)
		}

		if flagJSON {
			return printJSON(map[string]any{
				"node":        row,
				"children":    children,
				"descendants": descendants,
				"path":        path,
			})
		}

		fmt.Printf("node %d\n", row.ID)
		fmt.Printf("  parent:      %d\n", row.ParentID)
		fmt.Printf("  sort key:    %d\n", row.SortKey)
		fmt.Printf("  bounds:      [%d, %d] level %d\n", row.Left, row.Right, row.Level)
		fmt.Printf("  children:    %d\n", children)
		fmt.Printf("  descendants: %d\n", descendants)
		if len(row.Attrs) > 0 {
			fmt.Printf("  attrs:       %v\n", row.Attrs)
		}
		if len(path) > 0 {
			fmt.Print("  path:        ")
			for i, ancestor := range path {
				if i > 0 {
					fmt.Print(" > ")
				}
				fmt.Print(ancestor.ID)
			}
			fmt.Println()
		}
		return nil
	},
}
