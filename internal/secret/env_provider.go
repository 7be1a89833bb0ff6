package secret

import (
	"context"
	"fmt"
	"os"
)

const TypeEnv = "env"

// EnvProvider resolves secrets from environment variables.
type EnvProvider struct{}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

func (p *EnvProvider) CanResolve(secretType string) bool {
	return secretType == TypeEnv
}

// Resolve returns the variable's value. Unset and empty variables are errors.
func (p *EnvProvider) Resolve(_ context.Context, ref Ref) (string, error) {
	if !p.CanResolve(ref.Type) {
		return "", fmt.Errorf("env provider cannot resolve secret type: %s", ref.Type)
	}

	value := os.Getenv(ref.Name)
	if value == "" {
		return "", fmt.Errorf("environment variable %s not found or empty", ref.Name)
	}
	return value, nil
}

func (p *EnvProvider) IsAvailable() bool {
	return true
}
