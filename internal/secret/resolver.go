package secret

import (
	"context"
	"fmt"
	"os"
	"strings"

	"taskclient/pkg/logging"
)

// Resolver turns configuration values into plaintext secrets. It handles
// ENC(...) values and ${type:name} references; anything else is returned
// unchanged.
type Resolver struct {
	providers []Provider
	encryptor *Encryptor
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEncryptor sets the encryptor used for ENC(...) values.
func WithEncryptor(e *Encryptor) Option {
	return func(r *Resolver) {
		r.encryptor = e
	}
}

// WithProvider adds a reference provider.
func WithProvider(p Provider) Option {
	return func(r *Resolver) {
		r.providers = append(r.providers, p)
	}
}

// NewResolver creates a resolver with the env and keyring providers.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		providers: []Provider{NewEnvProvider(), NewKeyringProvider()},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewResolverFromEnv creates a resolver whose encryptor password is read
// from TASKCLIENT_ENCRYPTOR_PASSWORD. Without the variable, ENC(...) values
// fail to resolve.
func NewResolverFromEnv() *Resolver {
	var opts []Option
	if password := os.Getenv(PasswordEnvVar); password != "" {
		e, _ := NewEncryptor(password)
		opts = append(opts, WithEncryptor(e))
	}
	return NewResolver(opts...)
}

// Resolve returns the plaintext for value. References are expanded first,
// so a reference may itself hold an ENC(...) value.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := r.expandRefs(ctx, value)
	if err != nil {
		return "", err
	}
	if !IsEncrypted(expanded) {
		return expanded, nil
	}
	if r.encryptor == nil {
		return "", ErrNoPassword
	}
	return r.encryptor.Decrypt(expanded)
}

func (r *Resolver) expandRefs(ctx context.Context, input string) (string, error) {
	if !IsRef(input) {
		return input, nil
	}

	result := input
	for _, ref := range FindRefs(input) {
		value, err := r.resolveRef(ctx, *ref)
		if err != nil {
			return "", fmt.Errorf("failed to resolve secret %s: %w", ref.Original, err)
		}
		result = strings.ReplaceAll(result, ref.Original, value)
	}
	return result, nil
}

func (r *Resolver) resolveRef(ctx context.Context, ref Ref) (string, error) {
	for _, p := range r.providers {
		if !p.CanResolve(ref.Type) {
			continue
		}
		if !p.IsAvailable() {
			return "", fmt.Errorf("secret provider for %q is not available on this system", ref.Type)
		}
		logging.Debug("Secrets", "Resolving %s reference: %s", ref.Type, ref.Name)
		return p.Resolve(ctx, ref)
	}
	return "", fmt.Errorf("no provider for secret type %q", ref.Type)
}
