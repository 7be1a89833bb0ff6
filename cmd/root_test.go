package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskclient/internal/config"
	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// executeCommand runs a fresh command tree and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	rootCmd := newRootCmd()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())

	stdout, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "taskclient version 1.2.3-test\n", stdout)

	stdout, _, err = executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "taskclient version 1.2.3-test\n", stdout)
}

func TestRootCommand(t *testing.T) {
	rootCmd := newRootCmd()

	assert.Equal(t, "taskclient", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"version", "fetch", "token", "encrypt"} {
		assert.True(t, found[name], "subcommand %s must be registered", name)
	}

	for _, flag := range []string{"config", "debug", "endpoint", "registration", "timeout", "token-cache", "log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"generic", errors.New("boom"), ExitCodeError},
		{"handling error", fmt.Errorf("wrapped: %w", task.NewHandlingError("No data found in response")), ExitCodeTaskError},
		{"token failure", fmt.Errorf("wrapped: %w", &oauth.AcquireError{Registration: "r", Err: errors.New("x")}), ExitCodeAuthFailed},
		{"configuration error", &config.ConfigurationError{ErrorType: config.ErrorTypeParse, Message: "bad"}, ExitCodeConfigError},
		{"validation errors", config.ValidationErrors{{Field: "taskApi.endpoint", Message: "is required"}}, ExitCodeConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
