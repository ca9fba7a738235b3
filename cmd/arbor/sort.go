// Sort command changes a node's sibling ordering key.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort <id> <key>",
	Short: "Set a node's sort key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		key, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sort key %q", args[1])
		}

		if err := attachStore(); err != nil {
			return err
		}
		ed, err := editor()
		if err != nil {
			return err
		}
		if err := ed.SetSortKey(id, key); err != nil {
			return fmt.Errorf("sort node %d: %w", id, err)
		}
		fmt.Printf("node %d sort key set to %d\n", id, key)
		return nil
	},
}
