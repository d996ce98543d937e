package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macrokit/maestro"
	"github.com/macrokit/maestro/internal/presentation/tui"
)

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List, inspect and edit macros",
}

var macrosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every macro",
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		macros, err := client.ListMacros(cmd.Context())
		exitOn(err)
		printMarkdown(cmd, tui.MacroTable(macros))
	},
}

var macrosSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List the macros whose name contains the query (case-sensitive)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		macros, err := client.SearchMacros(cmd.Context(), args[0])
		exitOn(err)
		printMarkdown(cmd, tui.MacroTable(macros))
	},
}

var macrosGetCmd = &cobra.Command{
	Use:   "get <macro>",
	Short: "Show one macro by name or uid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		rec, err := client.GetMacro(cmd.Context(), args[0])
		exitOn(err)
		fmt.Printf("Name:    %s\nUID:     %s\nEnabled: %t\n", rec.Name, rec.UID, rec.Enabled)
	},
}

var macrosDefinitionCmd = &cobra.Command{
	Use:   "definition <macro>",
	Short: "Print one macro's full XML definition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		xml, err := client.GetMacroDefinition(cmd.Context(), args[0])
		exitOn(err)
		fmt.Println(xml)
	},
}

var macrosCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a macro, optionally with an initial action and a group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		payloadFile, _ := cmd.Flags().GetString("payload-file")
		group, _ := cmd.Flags().GetString("group")

		var payload string
		if payloadFile != "" {
			data, err := os.ReadFile(payloadFile)
			exitOn(err)
			payload = string(data)
		}

		client := mustClient(cmd)
		confirm, err := client.CreateMacro(cmd.Context(), args[0], maestro.CreateMacroOptions{
			Payload: payload,
			Group:   group,
		})
		exitOn(err)
		fmt.Println(confirm)
	},
}

var macrosDuplicateCmd = &cobra.Command{
	Use:   "duplicate <macro>",
	Short: "Duplicate a macro, optionally renaming the copy",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		newName, _ := cmd.Flags().GetString("name")
		client := mustClient(cmd)
		confirm, err := client.DuplicateMacro(cmd.Context(), args[0], newName)
		exitOn(err)
		fmt.Println(confirm)
	},
}

var macrosDeleteCmd = &cobra.Command{
	Use:   "delete <macro>",
	Short: "Delete a macro",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.DeleteMacro(cmd.Context(), args[0])
		exitOn(err)
		fmt.Println(confirm)
	},
}

var macrosEnableCmd = &cobra.Command{
	Use:   "enable <macro>",
	Short: "Enable a macro",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.SetMacroEnable(cmd.Context(), args[0], true)
		exitOn(err)
		fmt.Println(confirm)
	},
}

var macrosDisableCmd = &cobra.Command{
	Use:   "disable <macro>",
	Short: "Disable a macro",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := mustClient(cmd)
		confirm, err := client.SetMacroEnable(cmd.Context(), args[0], false)
		exitOn(err)
		fmt.Println(confirm)
	},
}

func mustClient(cmd *cobra.Command) *maestro.Client {
	client, err := newClient(cmd)
	exitOn(err)
	return client
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	macrosCreateCmd.Flags().String("payload-file", "", "File containing the initial action XML")
	macrosCreateCmd.Flags().String("group", "", "Group (name or uid) to create the macro in")
	macrosDuplicateCmd.Flags().String("name", "", "Name for the duplicated macro")

	macrosCmd.AddCommand(macrosListCmd, macrosSearchCmd, macrosGetCmd, macrosDefinitionCmd,
		macrosCreateCmd, macrosDuplicateCmd, macrosDeleteCmd, macrosEnableCmd, macrosDisableCmd)
	rootCmd.AddCommand(macrosCmd)
}
