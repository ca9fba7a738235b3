// Remove command deletes a node.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a node",
	Long: `Remove deletes a single node. Its children are kept and surface as
top-level nodes after the next "arbor rebuild".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := attachStore(); err != nil {
			return err
		}
		ed, err := editor()
		if err != nil {
			return err
		}
		if err := ed.DeleteNode(id); err != nil {
			return fmt.Errorf("remove node %d: %w", id, err)
		}
		fmt.Println("removed node", id)
		return nil
	},
}
