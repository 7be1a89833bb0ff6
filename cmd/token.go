package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskclient/internal/oauth"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Acquire an access token and show its status",
		Long: `Acquire an access token for a registration, or reuse the cached one, and
print its status. The token value itself is never printed.

Examples:
  taskclient token
  taskclient token --registration task-api-client -o json
  taskclient token list
  taskclient token clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := out.formatter()
			if err != nil {
				return err
			}

			application, err := root.newApplication(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			tok, err := application.Token(cmd.Context(), "")
			if err != nil {
				return err
			}
			return formatter.FormatTokens(cmd.OutOrStdout(), []*oauth.Token{tok})
		},
	}
	out.addFlags(cmd)

	cmd.AddCommand(newTokenListCmd(root))
	cmd.AddCommand(newTokenClearCmd(root))
	return cmd
}

func newTokenListCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached access tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := out.formatter()
			if err != nil {
				return err
			}

			application, err := root.newApplication(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			tokens, err := application.CachedTokens()
			if err != nil {
				return err
			}
			return formatter.FormatTokens(cmd.OutOrStdout(), tokens)
		},
	}
	out.addFlags(cmd)
	return cmd
}

func newTokenClearCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached access tokens",
		Long: `Remove all cached access tokens, or only the one of the registration
given with --registration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var registration string
			if cmd.Flags().Changed("registration") {
				registration, _ = cmd.Flags().GetString("registration")
			}

			application, err := root.newApplication(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.ClearTokens(registration); err != nil {
				return err
			}

			if registration == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cached tokens")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached token for %s\n", registration)
			}
			return nil
		},
	}
}
