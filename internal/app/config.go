package app

import (
	"io"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the config file
	Debug bool

	// Custom configuration file path (optional)
	// When empty, ~/.config/taskclient/config.yaml is used if present
	ConfigPath string

	// Overrides carries flag and environment overrides, see config.ApplyOverrides
	Overrides *viper.Viper

	// LogOutput receives log output, stderr when nil
	LogOutput io.Writer
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string, overrides *viper.Viper) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Overrides:  overrides,
	}
}
