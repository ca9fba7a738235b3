// Move command reparents a node.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <new-parent>",
	Short: "Move a node under a new parent",
	Long: `Move changes a node's parent. Use parent 0 to make it top-level.
Bounds stay stale until the next "arbor rebuild".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		parent, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || parent < 0 {
			return fmt.Errorf("invalid parent id %q", args[1])
		}

		if err := attachStore(); err != nil {
			return err
		}
		ed, err := editor()
		if err != nil {
			return err
		}
		if err := ed.SetParent(id, parent); err != nil {
			return fmt.Errorf("move node %d: %w", id, err)
		}
		fmt.Printf("moved node %d under %d\n", id, parent)
		return nil
	},
}
