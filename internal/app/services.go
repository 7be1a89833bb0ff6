package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"

	"taskclient/internal/config"
	"taskclient/internal/oauth"
	"taskclient/internal/task"
	"taskclient/pkg/logging"
)

// Services holds the components built from the resolved configuration.
//
// Service Dependencies:
//  1. Token store (bbolt file or memory)
//  2. One client-credentials token source per registration, in a registry
//  3. The task API HTTP client: authorization decorator plus error interceptor
//  4. The task service on top of that client
type Services struct {
	// TokenStore caches tokens for every registration.
	TokenStore oauth.TokenStore

	// Registry resolves registration ids to token sources.
	Registry *oauth.Registry

	// TaskService fetches tasks through the authorized client.
	TaskService *task.Service

	closer io.Closer
}

// InitializeServices wires all components for cfg. The configuration must
// already be validated and have its secrets resolved.
func InitializeServices(cfg config.Config) (*Services, error) {
	store, closer, err := newTokenStore(cfg.TokenCache)
	if err != nil {
		return nil, err
	}

	services := &Services{TokenStore: store, closer: closer}

	// Token requests share the timeout but never pass through the task API interceptor.
	base := http.DefaultTransport.(*http.Transport).Clone()
	tokenClient := &http.Client{Transport: base, Timeout: cfg.TaskAPI.Timeout}

	services.Registry = oauth.NewRegistry()
	for id, regCfg := range cfg.OAuth2.Registrations {
		source, err := oauth.NewClientCredentialsSource(oauth.Registration{
			ID:           id,
			ClientID:     regCfg.ClientID,
			ClientSecret: regCfg.ClientSecret,
			TokenURL:     regCfg.TokenURL,
			Scopes:       regCfg.Scopes,
			AuthStyle:    authStyle(regCfg.AuthStyle),
		},
			oauth.WithHTTPClient(tokenClient),
			oauth.WithTokenStore(store),
		)
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("failed to create token source for registration %s: %w", id, err)
		}
		services.Registry.Register(id, source)
		logging.Debug("Services", "Registered OAuth2 registration: %s", id)
	}

	source, err := services.Registry.Source(cfg.TaskAPI.Registration)
	if err != nil {
		services.Close()
		return nil, err
	}

	var parserOpts []task.ParserOption
	if cfg.TaskAPI.StrictFields {
		parserOpts = append(parserOpts, task.WithStrictFields())
	}

	client := task.NewHTTPClient(base, cfg.TaskAPI.Timeout, oauth.AuthorizeRequests(source))
	services.TaskService, err = task.NewService(cfg.TaskAPI.Endpoint, client, task.NewParser(parserOpts...))
	if err != nil {
		services.Close()
		return nil, err
	}

	logging.Info("Services", "Task API client ready: endpoint=%s, registration=%s", cfg.TaskAPI.Endpoint, cfg.TaskAPI.Registration)
	return services, nil
}

// Close releases the token store.
func (s *Services) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func newTokenStore(cfg config.TokenCacheConfig) (oauth.TokenStore, io.Closer, error) {
	if cfg.Path == "" {
		logging.Debug("Services", "Using in-memory token cache")
		return oauth.NewMemoryTokenStore(), nil, nil
	}

	path := cfg.Path
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to expand token cache path %s: %w", path, err)
		}
		path = filepath.Join(home, path[2:])
	}

	store, err := oauth.OpenBoltTokenStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token cache %s: %w", path, err)
	}
	logging.Debug("Services", "Using token cache file: %s", path)
	return store, store, nil
}

func authStyle(s string) oauth2.AuthStyle {
	switch s {
	case config.AuthStyleHeader:
		return oauth2.AuthStyleInHeader
	case config.AuthStyleParams:
		return oauth2.AuthStyleInParams
	default:
		return oauth2.AuthStyleAutoDetect
	}
}
