package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"taskclient/pkg/logging"
)

const (
	userConfigDir  = ".config/taskclient"
	configFileName = "config.yaml"

	// EnvPrefix prefixes every environment override, e.g. TASKCLIENT_TASK_API_ENDPOINT.
	EnvPrefix = "TASKCLIENT"
)

// Override keys read by ApplyOverrides. Each can be bound to a flag and is
// also looked up in the environment with dots and dashes turned into
// underscores, so task-api.endpoint becomes TASKCLIENT_TASK_API_ENDPOINT.
const (
	KeyEndpoint     = "task-api.endpoint"
	KeyRegistration = "task-api.registration"
	KeyTimeout      = "task-api.timeout"
	KeyStrictFields = "task-api.strict-fields"
	KeyClientID     = "oauth2.client-id"
	KeyClientSecret = "oauth2.client-secret"
	KeyTokenURL     = "oauth2.token-url"
	KeyTokenCache   = "token-cache.path"
	KeyLogLevel     = "log-level"
	KeyLogFormat    = "log-format"
)

var osUserHomeDir = os.UserHomeDir

// DefaultConfigPath returns ~/.config/taskclient/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// Load reads the config file at path over the defaults. An empty path means
// the default location, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, newConfigurationError("", ErrorTypeIO, "cannot locate config file", err,
				"pass --config with the path of the config file")
		}
		path = defaultPath
	}

	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", path)
			return config, nil
		}
		return Config{}, newConfigurationError(path, ErrorTypeIO, "cannot read config file", err,
			"check that the file exists and is readable")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, newConfigurationError(path, ErrorTypeParse, "config file is not valid", err,
			"check the YAML syntax and the field names against the documented layout")
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return config, nil
}

// NewViper returns a viper instance reading TASKCLIENT_* environment
// variables. Flags are bound to it by the CLI.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every override set in v (flag or environment) onto
// cfg. OAuth2 overrides apply to the active registration, which is created
// if the file does not define it.
func ApplyOverrides(v *viper.Viper, cfg *Config) error {
	if v.IsSet(KeyEndpoint) {
		cfg.TaskAPI.Endpoint = v.GetString(KeyEndpoint)
	}
	if v.IsSet(KeyRegistration) {
		cfg.TaskAPI.Registration = v.GetString(KeyRegistration)
	}
	if v.IsSet(KeyTimeout) {
		timeout, err := parseDuration(v.GetString(KeyTimeout))
		if err != nil {
			return newConfigurationError("", ErrorTypeValidation, fmt.Sprintf("invalid %s override", KeyTimeout), err,
				"use a Go duration such as 10s or 1m")
		}
		cfg.TaskAPI.Timeout = timeout
	}
	if v.IsSet(KeyStrictFields) {
		cfg.TaskAPI.StrictFields = v.GetBool(KeyStrictFields)
	}
	if v.IsSet(KeyTokenCache) {
		cfg.TokenCache.Path = v.GetString(KeyTokenCache)
	}
	if v.IsSet(KeyLogLevel) {
		cfg.Logging.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFormat) {
		cfg.Logging.Format = v.GetString(KeyLogFormat)
	}

	if v.IsSet(KeyClientID) || v.IsSet(KeyClientSecret) || v.IsSet(KeyTokenURL) {
		if cfg.OAuth2.Registrations == nil {
			cfg.OAuth2.Registrations = map[string]RegistrationConfig{}
		}
		reg := cfg.OAuth2.Registrations[cfg.TaskAPI.Registration]
		if v.IsSet(KeyClientID) {
			reg.ClientID = v.GetString(KeyClientID)
		}
		if v.IsSet(KeyClientSecret) {
			reg.ClientSecret = v.GetString(KeyClientSecret)
		}
		if v.IsSet(KeyTokenURL) {
			reg.TokenURL = v.GetString(KeyTokenURL)
		}
		cfg.OAuth2.Registrations[cfg.TaskAPI.Registration] = reg
	}

	return nil
}

// parseDuration accepts Go durations and plain seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as a duration", s)
	}
	return time.Duration(secs) * time.Second, nil
}
