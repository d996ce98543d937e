package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro/internal/presentation/tui"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List and edit a macro's actions",
	Long: `List and edit the actions of one macro.

Action indices are 1-based and ephemeral: any add, delete or move on the
same macro invalidates every index observed before it. List again after
mutating.`,
}

var actionsListCmd = &cobra.Command{
	Use:   "list <macro>",
	Short: "List the actions of a macro",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		actions, err := client.ListActions(cmd.Context(), args[0])
		exitOn(err)
		printMarkdown(cmd, tui.ActionTable(actions))
	},
}

var actionsGetCmd = &cobra.Command{
	Use:   "get <macro> <index>",
	Short: "Print one action's XML definition",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		xml, err := client.GetAction(cmd.Context(), args[0], mustIndex(args[1]))
		exitOn(err)
		fmt.Println(xml)
	},
}

var actionsAddCmd = &cobra.Command{
	Use:   "add <macro> <payload-file>",
	Short: "Append an action from an XML file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := os.ReadFile(args[1])
		exitOn(err)
		client := mustClient(cmd)
		confirm, err := client.AddAction(cmd.Context(), args[0], string(payload))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var actionsSetCmd = &cobra.Command{
	Use:   "set <macro> <index> <payload-file>",
	Short: "Replace one action's definition from an XML file",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := os.ReadFile(args[2])
		exitOn(err)
		client := mustClient(cmd)
		confirm, err := client.SetAction(cmd.Context(), args[0], mustIndex(args[1]), string(payload))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var actionsDeleteCmd = &cobra.Command{
	Use:   "delete <macro> <index>",
	Short: "Delete one action",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.DeleteAction(cmd.Context(), args[0], mustIndex(args[1]))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var actionsMoveCmd = &cobra.Command{
	Use:   "move <macro> <index> <to>",
	Short: "Move an action before the destination index (or to the tail when past the end)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.MoveAction(cmd.Context(), args[0], mustIndex(args[1]), mustIndex(args[2]))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var actionsReplaceCmd = &cobra.Command{
	Use:   "replace <macro> <index> <search> <replace>",
	Short: "Rewrite one action's XML by literal case-sensitive substring replacement",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.SearchReplaceAction(cmd.Context(), args[0], mustIndex(args[1]), args[2], args[3])
		exitOn(err)
		fmt.Println(confirm)
	},
}

func mustIndex(s string) int {
	index, err := strconv.Atoi(s)
	if err != nil {
		exitOn(fmt.Errorf("index %q is not an integer", s))
	}
	return index
}

func init() {
	actionsCmd.AddCommand(actionsListCmd, actionsGetCmd, actionsAddCmd, actionsSetCmd,
		actionsDeleteCmd, actionsMoveCmd, actionsReplaceCmd)
	rootCmd.AddCommand(actionsCmd)
}
