package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskclient/internal/secret"
)

func newEncryptCmd() *cobra.Command {
	var keyringName string

	cmd := &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt a secret for use in the config file",
		Long: `Encrypt a value, typically an OAuth2 client secret, and print it in the
ENC(...) form understood by the config file. The password is read from
` + secret.PasswordEnvVar + ` and must be set the same way when
taskclient reads the config.

With --keyring the value is stored in the OS keyring instead and the
matching ${keyring:NAME} reference is printed.

Examples:
  ` + secret.PasswordEnvVar + `=... taskclient encrypt my-client-secret
  taskclient encrypt my-client-secret --keyring task-api-client`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyringName != "" {
				provider := secret.NewKeyringProvider()
				if !provider.IsAvailable() {
					return fmt.Errorf("OS keyring is not available on this system")
				}
				if err := provider.Store(cmd.Context(), keyringName, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "${%s:%s}\n", secret.TypeKeyring, keyringName)
				return nil
			}

			encryptor, err := secret.NewEncryptor(os.Getenv(secret.PasswordEnvVar))
			if err != nil {
				return err
			}
			payload, err := encryptor.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret.Wrap(payload))
			return nil
		},
	}
	cmd.Flags().StringVar(&keyringName, "keyring", "", "store the value in the OS keyring under this name")
	return cmd
}
