// Package cmd implements the command-line interface for reeler.
package cmd

import (
	"strings"

	"github.com/reeler-cli/reeler/mini"
	"github.com/reeler-cli/reeler/query"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// playCmd plays the library item closest to the given query without the full search flow.
var playCmd = &cobra.Command{
	Use:   "play <query>",
	Short: "Play the library item matching the query",
	Long: `Search the library for the given query and start playback immediately.
A single match plays directly; several matches open the selection menu.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		options := mini.Options{
			Query: strings.Join(args, " "),
		}
		err := mini.Run(&options)

		if err != nil && err.Error() != "interrupt" {
			handleErr(err)
		}
	},
}
