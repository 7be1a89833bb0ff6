package secret

import (
	"context"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keyring service all taskclient entries live under.
	ServiceName = "taskclient"
	TypeKeyring = "keyring"
)

// KeyringProvider resolves secrets from the OS keyring (Keychain, Secret Service, WinCred).
type KeyringProvider struct {
	serviceName string
}

func NewKeyringProvider() *KeyringProvider {
	return &KeyringProvider{
		serviceName: ServiceName,
	}
}

func (p *KeyringProvider) CanResolve(secretType string) bool {
	return secretType == TypeKeyring
}

// Resolve retrieves the secret value from the OS keyring.
func (p *KeyringProvider) Resolve(_ context.Context, ref Ref) (string, error) {
	if !p.CanResolve(ref.Type) {
		return "", fmt.Errorf("keyring provider cannot resolve secret type: %s", ref.Type)
	}

	value, err := keyring.Get(p.serviceName, ref.Name)
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s from keyring: %w", ref.Name, err)
	}
	return value, nil
}

// Store saves a secret so it can later be referenced as ${keyring:name}.
func (p *KeyringProvider) Store(_ context.Context, name, value string) error {
	if err := keyring.Set(p.serviceName, name, value); err != nil {
		return fmt.Errorf("failed to store secret %s in keyring: %w", name, err)
	}
	return nil
}

// IsAvailable probes the keyring with a lookup of a key that never exists.
func (p *KeyringProvider) IsAvailable() bool {
	_, err := keyring.Get(p.serviceName, "_taskclient_probe")
	return err == nil || err == keyring.ErrNotFound
}
