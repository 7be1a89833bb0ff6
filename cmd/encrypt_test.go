package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"taskclient/internal/secret"
)

func TestEncryptCommand(t *testing.T) {
	t.Setenv(secret.PasswordEnvVar, "pw")

	stdout, _, err := executeCommand(t, "encrypt", "task-api-secret-test")
	require.NoError(t, err)

	value := strings.TrimSpace(stdout)
	require.True(t, secret.IsEncrypted(value), value)

	encryptor, err := secret.NewEncryptor("pw")
	require.NoError(t, err)
	plaintext, err := encryptor.Decrypt(value)
	require.NoError(t, err)
	assert.Equal(t, "task-api-secret-test", plaintext)
}

func TestEncryptCommand_NoPassword(t *testing.T) {
	t.Setenv(secret.PasswordEnvVar, "")

	_, _, err := executeCommand(t, "encrypt", "task-api-secret-test")
	assert.ErrorIs(t, err, secret.ErrNoPassword)
}

func TestEncryptCommand_Keyring(t *testing.T) {
	keyring.MockInit()

	stdout, _, err := executeCommand(t, "encrypt", "task-api-secret-test", "--keyring", "task-api-client")
	require.NoError(t, err)
	assert.Equal(t, "${keyring:task-api-client}\n", stdout)

	stored, err := keyring.Get(secret.ServiceName, "task-api-client")
	require.NoError(t, err)
	assert.Equal(t, "task-api-secret-test", stored)
}
