package config

import "time"

// Config is the top-level configuration structure for taskclient.
type Config struct {
	TaskAPI    TaskAPIConfig    `yaml:"taskApi"`
	OAuth2     OAuth2Config     `yaml:"oauth2"`
	TokenCache TokenCacheConfig `yaml:"tokenCache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TaskAPIConfig defines how the remote task API is called.
type TaskAPIConfig struct {
	Endpoint     string        `yaml:"endpoint"`               // Task fetch URL, the id is sent as ?id=
	Registration string        `yaml:"registration,omitempty"` // OAuth2 registration used to authorize calls (default: task-api-client)
	Timeout      time.Duration `yaml:"timeout,omitempty"`      // Whole-request timeout, 0 leaves it to the transport (default: 30s)
	StrictFields bool          `yaml:"strictFields,omitempty"` // Reject tasks with missing id, title or description
}

// OAuth2Config holds the client-credentials registrations keyed by id.
type OAuth2Config struct {
	Registrations map[string]RegistrationConfig `yaml:"registrations"`
}

// AuthStyle values accepted for RegistrationConfig.AuthStyle.
const (
	AuthStyleAuto   = "auto"
	AuthStyleHeader = "header"
	AuthStyleParams = "params"
)

// RegistrationConfig is one OAuth2 client-credentials registration.
// ClientID and ClientSecret may be ENC(...) values or ${env:NAME} / ${keyring:NAME} references.
type RegistrationConfig struct {
	ClientID     string   `yaml:"clientId"`
	ClientSecret string   `yaml:"clientSecret"`
	TokenURL     string   `yaml:"tokenUrl"`
	Scopes       []string `yaml:"scopes,omitempty"`
	AuthStyle    string   `yaml:"authStyle,omitempty"` // header, params or auto (default: auto)
}

// TokenCacheConfig selects where acquired tokens are kept.
type TokenCacheConfig struct {
	Path string `yaml:"path,omitempty"` // bbolt file, empty keeps tokens in memory only
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// ActiveRegistration returns the registration selected by TaskAPI.Registration.
func (c Config) ActiveRegistration() (RegistrationConfig, bool) {
	reg, ok := c.OAuth2.Registrations[c.TaskAPI.Registration]
	return reg, ok
}
