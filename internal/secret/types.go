package secret

import "context"

// Ref is a reference to a secret held outside the configuration file,
// written as ${type:name}.
type Ref struct {
	Type     string // env, keyring
	Name     string // environment variable name or keyring entry
	Original string // reference as written
}

// Provider resolves references of one type.
type Provider interface {
	// CanResolve returns true if this provider can handle the given secret type
	CanResolve(secretType string) bool

	// Resolve retrieves the actual secret value
	Resolve(ctx context.Context, ref Ref) (string, error)

	// IsAvailable checks if the provider is available on the current system
	IsAvailable() bool
}
