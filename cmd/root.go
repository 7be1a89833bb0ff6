package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskclient/internal/app"
	"taskclient/internal/config"
	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthFailed indicates no access token could be obtained.
	ExitCodeAuthFailed = 2
	// ExitCodeTaskError indicates the task API rejected the request or returned an unusable task.
	ExitCodeTaskError = 3
	// ExitCodeConfigError indicates the configuration could not be loaded or is invalid.
	ExitCodeConfigError = 4
)

var version = "dev"

// SetVersion sets the version reported by the CLI.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return version
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool
	overrides  *viper.Viper
}

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{overrides: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "taskclient",
		Short: "Fetch tasks from an OAuth2 protected task API",
		Long: `taskclient fetches a single task from a remote task API that is protected
by OAuth2 client-credentials authentication. Access tokens are acquired and
cached transparently.`,
		Version: version,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "taskclient version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/taskclient/config.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.String("endpoint", "", "task API endpoint URL")
	flags.String("registration", "", "OAuth2 registration used for the task API")
	flags.String("timeout", "", "request timeout, e.g. 10s")
	flags.String("token-cache", "", "token cache file, empty keeps tokens in memory")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")

	for key, flag := range map[string]string{
		config.KeyEndpoint:     "endpoint",
		config.KeyRegistration: "registration",
		config.KeyTimeout:      "timeout",
		config.KeyTokenCache:   "token-cache",
		config.KeyLogLevel:     "log-level",
		config.KeyLogFormat:    "log-format",
	} {
		_ = opts.overrides.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newFetchCmd(opts))
	rootCmd.AddCommand(newTokenCmd(opts))
	rootCmd.AddCommand(newEncryptCmd())

	return rootCmd
}

// newApplication bootstraps the application from the persistent flags.
func (o *rootOptions) newApplication(ctx context.Context, cmd *cobra.Command) (*app.Application, error) {
	cfg := app.NewConfig(o.debug, o.configPath, o.overrides)
	cfg.LogOutput = cmd.ErrOrStderr()
	return app.NewApplication(ctx, cfg)
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var ce *config.ConfigurationError
		if errors.As(err, &ce) && len(ce.Suggestions) > 0 {
			fmt.Fprintln(rootCmd.ErrOrStderr(), ce.DetailedError())
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if task.IsHandlingError(err) {
		return ExitCodeTaskError
	}

	var acquireErr *oauth.AcquireError
	if errors.As(err, &acquireErr) {
		return ExitCodeAuthFailed
	}

	var configErr *config.ConfigurationError
	if errors.As(err, &configErr) {
		return ExitCodeConfigError
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfigError
	}

	// Default to general error
	return ExitCodeError
}
