package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the maestro version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("maestro version %s\n", maestro.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
