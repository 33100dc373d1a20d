// Package cmd implements the command-line interface for reeler.
package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reeler-cli/reeler/auth"
	"github.com/reeler-cli/reeler/color"
	"github.com/reeler-cli/reeler/icon"
	"github.com/reeler-cli/reeler/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().StringP("token", "t", "", "The server API token to store (prompted interactively when omitted)")
}

// authCmd manages the server API token kept in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the media server API token",
}

// authLoginCmd stores a server API token in the system keyring.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the media server API token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		token, _ := cmd.Flags().GetString("token")

		if token == "" {
			prompt := &survey.Password{
				Message: "Server API token:",
			}
			handleErr(survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)))
		}

		if token == "" {
			handleErr(errors.New("token must not be empty"))
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s token stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// authLogoutCmd removes the stored server API token.
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored media server API token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// authStatusCmd reports whether a server API token is currently stored.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a media server API token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := auth.GetToken(); err != nil {
			fmt.Printf("%s no token stored\n", icon.Get(icon.Fail))
			return
		}

		fmt.Printf("%s token present\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
