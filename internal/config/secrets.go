package config

import (
	"context"
	"fmt"
	"sort"
)

// SecretResolver turns a configured value into its plaintext.
// *secret.Resolver satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

// ResolveSecrets replaces the client id and secret of every registration
// with their resolved plaintext.
func ResolveSecrets(ctx context.Context, cfg *Config, resolver SecretResolver) error {
	ids := make([]string, 0, len(cfg.OAuth2.Registrations))
	for id := range cfg.OAuth2.Registrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		reg := cfg.OAuth2.Registrations[id]

		clientID, err := resolver.Resolve(ctx, reg.ClientID)
		if err != nil {
			return secretError(id, "clientId", err)
		}
		clientSecret, err := resolver.Resolve(ctx, reg.ClientSecret)
		if err != nil {
			return secretError(id, "clientSecret", err)
		}

		reg.ClientID = clientID
		reg.ClientSecret = clientSecret
		cfg.OAuth2.Registrations[id] = reg
	}
	return nil
}

func secretError(id, field string, err error) error {
	return newConfigurationError("", ErrorTypeSecret,
		fmt.Sprintf("cannot resolve oauth2.registrations.%s.%s", id, field), err,
		"set TASKCLIENT_ENCRYPTOR_PASSWORD for ENC(...) values",
		"check that referenced environment variables and keyring entries exist",
	)
}
