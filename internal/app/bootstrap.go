package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"taskclient/internal/config"
	"taskclient/internal/oauth"
	"taskclient/internal/secret"
	"taskclient/internal/task"
	"taskclient/pkg/logging"
)

// Application bootstraps taskclient and exposes the operations behind the CLI commands.
//
// Bootstrap sequence (NewApplication):
//  1. Initialize logging at the requested level
//  2. Load the config file and apply flag/environment overrides
//  3. Re-initialize logging from the loaded settings
//  4. Resolve ENC(...) values and secret references
//  5. Validate and build the services
//
// Callers must Close the application to release the token cache.
type Application struct {
	config   *Config
	settings config.Config
	services *Services
}

// NewApplication creates and initializes a new application instance with the provided configuration.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}

	bootLevel := logging.LevelWarn
	if cfg.Debug {
		bootLevel = logging.LevelDebug
	}
	logging.InitForCLI(bootLevel, logOutput)

	settings, err := config.Load(cfg.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration")
		return nil, err
	}

	if cfg.Overrides != nil {
		if err := config.ApplyOverrides(cfg.Overrides, &settings); err != nil {
			return nil, err
		}
	}

	level, err := logging.ParseLevel(settings.Logging.Level)
	if err != nil {
		return nil, &config.ConfigurationError{ErrorType: config.ErrorTypeValidation, Message: err.Error(), Err: err}
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, logging.Format(settings.Logging.Format), logOutput)

	if err := config.ResolveSecrets(ctx, &settings, secret.NewResolverFromEnv()); err != nil {
		logging.Error("Bootstrap", err, "Failed to resolve configuration secrets")
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		logging.Error("Bootstrap", err, "Invalid configuration")
		return nil, err
	}

	services, err := InitializeServices(settings)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		settings: settings,
		services: services,
	}, nil
}

// Settings returns the effective configuration, secrets resolved.
func (a *Application) Settings() config.Config {
	return a.settings
}

// Fetch retrieves one task.
func (a *Application) Fetch(ctx context.Context, id string) (task.Task, error) {
	return a.services.TaskService.Fetch(ctx, id)
}

// FetchAsync retrieves one task without blocking the caller.
func (a *Application) FetchAsync(ctx context.Context, id string) <-chan task.Result {
	return a.services.TaskService.FetchAsync(ctx, id)
}

// Token returns a valid token for the registration, acquiring one if the
// cache holds none. An empty registration means the task API's registration.
func (a *Application) Token(ctx context.Context, registration string) (*oauth.Token, error) {
	if registration == "" {
		registration = a.settings.TaskAPI.Registration
	}
	source, err := a.services.Registry.Source(registration)
	if err != nil {
		return nil, err
	}
	return source.Token(ctx)
}

// CachedTokens lists the tokens currently held by the token cache.
func (a *Application) CachedTokens() ([]*oauth.Token, error) {
	return a.services.TokenStore.List()
}

// ClearTokens drops cached tokens for one registration, or all of them when registration is empty.
func (a *Application) ClearTokens(registration string) error {
	if registration == "" {
		logging.Info("Bootstrap", "Clearing all cached tokens")
		return a.services.TokenStore.Clear()
	}
	if _, err := a.services.Registry.Source(registration); err != nil {
		return err
	}
	logging.Info("Bootstrap", "Clearing cached token for registration %s", registration)
	return a.services.TokenStore.Delete(registration)
}

// Close releases resources held by the application.
func (a *Application) Close() error {
	return a.services.Close()
}
