// internal/config/config.go
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	ListenAddr   string `mapstructure:"LISTEN_ADDR"`
	GithubToken  string `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL string `mapstructure:"GITHUB_API_URL"`
	DataPath     string `mapstructure:"DATA_PATH"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("DATA_PATH", "github-explorer.db")
	viper.SetDefault("GITHUB_TOKEN", "")
	viper.SetDefault("GITHUB_API_URL", "")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// The token is optional: unauthenticated requests work against the
	// public API at a lower rate limit.
	if cfg.ListenAddr == "" {
		return nil, errors.New("LISTEN_ADDR is a required configuration field")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is a required configuration field")
	}

	return &cfg, nil
}
