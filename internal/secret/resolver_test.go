package secret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestResolver_PlainValue(t *testing.T) {
	got, err := NewResolver().Resolve(context.Background(), "task-api-secret-test")
	require.NoError(t, err)
	assert.Equal(t, "task-api-secret-test", got)
}

func TestResolver_EnvRef(t *testing.T) {
	t.Setenv("TASKCLIENT_TEST_SECRET", "from-env")

	got, err := NewResolver().Resolve(context.Background(), "${env:TASKCLIENT_TEST_SECRET}")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = NewResolver().Resolve(context.Background(), "prefix-${env:TASKCLIENT_TEST_SECRET}-suffix")
	require.NoError(t, err)
	assert.Equal(t, "prefix-from-env-suffix", got)

	_, err = NewResolver().Resolve(context.Background(), "${env:TASKCLIENT_TEST_UNSET}")
	assert.ErrorContains(t, err, "TASKCLIENT_TEST_UNSET")
}

func TestResolver_KeyringRef(t *testing.T) {
	keyring.MockInit()

	provider := NewKeyringProvider()
	require.NoError(t, provider.Store(context.Background(), "task-api-client", "from-keyring"))

	got, err := NewResolver().Resolve(context.Background(), "${keyring:task-api-client}")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", got)

	_, err = NewResolver().Resolve(context.Background(), "${keyring:missing}")
	assert.Error(t, err)
}

func TestResolver_UnknownType(t *testing.T) {
	_, err := NewResolver().Resolve(context.Background(), "${vault:x}")
	assert.ErrorContains(t, err, `no provider for secret type "vault"`)
}

func TestResolver_Encrypted(t *testing.T) {
	e, err := NewEncryptor("pw")
	require.NoError(t, err)
	payload, err := e.Encrypt("task-api-secret-test")
	require.NoError(t, err)

	got, err := NewResolver(WithEncryptor(e)).Resolve(context.Background(), Wrap(payload))
	require.NoError(t, err)
	assert.Equal(t, "task-api-secret-test", got)

	_, err = NewResolver().Resolve(context.Background(), Wrap(payload))
	assert.ErrorIs(t, err, ErrNoPassword)
}

func TestResolver_EnvRefHoldingEncryptedValue(t *testing.T) {
	e, err := NewEncryptor("pw")
	require.NoError(t, err)
	payload, err := e.Encrypt("s3cret")
	require.NoError(t, err)
	t.Setenv("TASKCLIENT_TEST_ENC_SECRET", Wrap(payload))

	got, err := NewResolver(WithEncryptor(e)).Resolve(context.Background(), "${env:TASKCLIENT_TEST_ENC_SECRET}")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	_, err = NewResolver().Resolve(context.Background(), "${env:TASKCLIENT_TEST_ENC_SECRET}")
	assert.ErrorIs(t, err, ErrNoPassword)
}

func TestResolver_KeyringRefHoldingEncryptedValue(t *testing.T) {
	keyring.MockInit()

	e, err := NewEncryptor("pw")
	require.NoError(t, err)
	payload, err := e.Encrypt("s3cret")
	require.NoError(t, err)
	require.NoError(t, NewKeyringProvider().Store(context.Background(), "encrypted-client", Wrap(payload)))

	got, err := NewResolver(WithEncryptor(e)).Resolve(context.Background(), "${keyring:encrypted-client}")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestNewResolverFromEnv(t *testing.T) {
	e, err := NewEncryptor("env-password")
	require.NoError(t, err)
	payload, err := e.Encrypt("task-api-secret-test")
	require.NoError(t, err)

	t.Setenv(PasswordEnvVar, "env-password")
	got, err := NewResolverFromEnv().Resolve(context.Background(), Wrap(payload))
	require.NoError(t, err)
	assert.Equal(t, "task-api-secret-test", got)
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("${ env : NAME }")
	require.NoError(t, err)
	assert.Equal(t, "env", ref.Type)
	assert.Equal(t, "NAME", ref.Name)

	_, err = ParseRef("plain")
	assert.Error(t, err)

	assert.Len(t, FindRefs("${env:A} and ${keyring:B}"), 2)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "ab****", Mask("abcdef"))
	assert.Equal(t, "tas****st", Mask("task-api-secret-test"))
}
