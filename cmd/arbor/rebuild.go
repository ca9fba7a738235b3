// Rebuild command renumbers the whole forest.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/internal/logger"
	"github.com/mesh-intelligence/arbor/pkg/index"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute nested-set bounds",
	Long: `Rebuild reads the whole forest, renumbers it in memory, and writes back
only the rows whose bounds changed. Run it after add/move/sort/remove.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := attachStore(); err != nil {
			return err
		}

		ix := index.New(records, index.WithLogger(logger.For(log, "index")))
		report, err := ix.Rebuild()
		if err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}

		if flagJSON {
			return printJSON(report)
		}
		fmt.Printf("rebuild %s: %d nodes, %d changed, %d written in %s\n",
			report.RunID, report.Total, report.Changed, report.Written, report.Elapsed)
		return nil
	},
}
