package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <macro>",
	Short: "Execute a macro and wait for the engine to confirm",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parameter, _ := cmd.Flags().GetString("param")
		client := mustClient(cmd)
		confirm, err := client.ExecuteMacro(cmd.Context(), args[0], parameter)
		exitOn(err)
		fmt.Println(confirm)
	},
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop the cached macro and group listings",
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		exitOn(client.InvalidateListings(cmd.Context()))
		fmt.Println("Listings invalidated")
	},
}

func init() {
	runCmd.Flags().String("param", "", "Parameter passed to the macro")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(invalidateCmd)
}
