// List command renders children, descendants, or the ancestor path.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/query"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

var (
	listDescendants bool
	listPath        bool
	listIncludeSelf bool
)

var listCmd = &cobra.Command{
	Use:   "list [id]",
	Short: "List children, descendants, or the path of a node",
	Long: `List prints the direct children of a node (default), its whole subtree
(--descendants), or its ancestor path (--path). Without an id it lists the
top-level nodes.

Example:
  arbor list
  arbor list 7
  arbor list 7 --descendants --include-self
  arbor list 7 --path`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listDescendants && listPath {
			return fmt.Errorf("--descendants and --path are mutually exclusive")
		}

		ref := types.RootRef()
		var id int64
		if len(args) == 1 {
			parsed, err := parseID(args[0])
			if err != nil {
				return err
			}
			id = parsed
			ref = types.Ref(id)
		}

		if err := attachStore(); err != nil {
			return err
		}
		engine := query.New(records)

		var rows []types.NodeRow
		var err error
		switch {
		case listPath:
			if len(args) == 0 {
				return fmt.Errorf("--path requires a node id")
			}
			rows, err = engine.Path(id, listIncludeSelf)
		case listDescendants:
			rows, err = engine.Descendants(ref, listIncludeSelf)
		default:
			rows, err = engine.Children(ref, listIncludeSelf)
		}
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return printRows(rows)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listDescendants, "descendants", false, "list the whole subtree")
	listCmd.Flags().BoolVar(&listPath, "path", false, "list the ancestor path")
	listCmd.Flags().BoolVar(&listIncludeSelf, "include-self", false, "include the node itself")
}
