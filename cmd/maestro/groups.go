package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro/internal/presentation/tui"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List and edit macro groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every macro group",
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		groups, err := client.ListGroups(cmd.Context())
		exitOn(err)
		printMarkdown(cmd, tui.GroupTable(groups))
	},
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a macro group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.CreateGroup(cmd.Context(), args[0])
		exitOn(err)
		fmt.Println(confirm)
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <group>",
	Short: "Delete a macro group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.DeleteGroup(cmd.Context(), args[0])
		exitOn(err)
		fmt.Println(confirm)
	},
}

var groupsEnableCmd = &cobra.Command{
	Use:   "enable <group>",
	Short: "Enable a macro group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.SetGroupEnable(cmd.Context(), args[0], true)
		exitOn(err)
		fmt.Println(confirm)
	},
}

var groupsDisableCmd = &cobra.Command{
	Use:   "disable <group>",
	Short: "Disable a macro group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.SetGroupEnable(cmd.Context(), args[0], false)
		exitOn(err)
		fmt.Println(confirm)
	},
}

func init() {
	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsDeleteCmd, groupsEnableCmd, groupsDisableCmd)
	rootCmd.AddCommand(groupsCmd)
}
