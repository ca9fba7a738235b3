// Version command for the arbor CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the arbor release version.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the arbor version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("arbor", Version)
	},
}
