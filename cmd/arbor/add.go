// Add command creates a node under a parent.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addParent int64
	addSort   int64
)

var addCmd = &cobra.Command{
	Use:   "add [attr=value...]",
	Short: "Add a node",
	Long: `Add creates a node under the given parent with optional attributes.
Bounds stay stale until the next "arbor rebuild".

Example:
  arbor add --parent 0 name=Projects
  arbor add --parent 3 --sort 10 name=Inbox color=blue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := attachStore(); err != nil {
			return err
		}
		ed, err := editor()
		if err != nil {
			return err
		}
		attrs, err := parseAttrs(args)
		if err != nil {
			return err
		}

		id, err := ed.CreateNode(addParent, addSort, attrs)
		if err != nil {
			return fmt.Errorf("create node: %w", err)
		}
		if flagJSON {
			return printJSON(map[string]any{"id": id})
		}
		fmt.Println("created node", id)
		return nil
	},
}

func init() {
	addCmd.Flags().Int64Var(&addParent, "parent", 0, "parent node id (0 for top level)")
	addCmd.Flags().Int64Var(&addSort, "sort", 0, "sibling sort key")
}
