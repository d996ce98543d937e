package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro/internal/presentation/tui"
)

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List and edit a macro's triggers",
	Long: `List and edit the triggers of one macro.

Trigger indices carry the same caveat as action indices: 1-based,
valid only until the macro is next mutated.`,
}

var triggersListCmd = &cobra.Command{
	Use:   "list <macro>",
	Short: "List the triggers of a macro",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		triggers, err := client.ListTriggers(cmd.Context(), args[0])
		exitOn(err)
		printMarkdown(cmd, tui.TriggerTable(triggers))
	},
}

var triggersGetCmd = &cobra.Command{
	Use:   "get <macro> <index>",
	Short: "Print one trigger's XML definition",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		xml, err := client.GetTrigger(cmd.Context(), args[0], mustIndex(args[1]))
		exitOn(err)
		fmt.Println(xml)
	},
}

var triggersAddCmd = &cobra.Command{
	Use:   "add <macro> <payload-file>",
	Short: "Append a trigger from an XML file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := os.ReadFile(args[1])
		exitOn(err)
		client := mustClient(cmd)
		confirm, err := client.AddTrigger(cmd.Context(), args[0], string(payload))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var triggersSetCmd = &cobra.Command{
	Use:   "set <macro> <index> <payload-file>",
	Short: "Replace one trigger's definition from an XML file",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := os.ReadFile(args[2])
		exitOn(err)
		client := mustClient(cmd)
		confirm, err := client.SetTrigger(cmd.Context(), args[0], mustIndex(args[1]), string(payload))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var triggersDeleteCmd = &cobra.Command{
	Use:   "delete <macro> <index>",
	Short: "Delete one trigger",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.DeleteTrigger(cmd.Context(), args[0], mustIndex(args[1]))
		exitOn(err)
		fmt.Println(confirm)
	},
}

var triggersMoveCmd = &cobra.Command{
	Use:   "move <macro> <index> <to>",
	Short: "Move a trigger before the destination index (or to the tail when past the end)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.MoveTrigger(cmd.Context(), args[0], mustIndex(args[1]), mustIndex(args[2]))
		exitOn(err)
		fmt.Println(confirm)
	},
}

func init() {
	triggersCmd.AddCommand(triggersListCmd, triggersGetCmd, triggersAddCmd, triggersSetCmd,
		triggersDeleteCmd, triggersMoveCmd)
	rootCmd.AddCommand(triggersCmd)
}
