package config

import "time"

const (
	// DefaultRegistration is the registration id used when none is configured.
	DefaultRegistration = "task-api-client"

	// DefaultTimeout bounds a whole task API request, token acquisition included.
	DefaultTimeout = 30 * time.Second
)

// GetDefaultConfig returns the default configuration. It has no endpoint or
// registrations, so it only validates once a file or overrides supply them.
func GetDefaultConfig() Config {
	return Config{
		TaskAPI: TaskAPIConfig{
			Registration: DefaultRegistration,
			Timeout:      DefaultTimeout,
		},
		OAuth2: OAuth2Config{
			Registrations: map[string]RegistrationConfig{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
