package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect characters and chat from the CLI",
	}
	cmd.AddCommand(queryCharacterCmd())
	cmd.AddCommand(queryChatCmd())
	return cmd
}
