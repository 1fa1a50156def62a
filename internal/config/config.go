package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Search  SearchConfig  `mapstructure:"search"`
}

// ServerConfig holds the engine's HTTP surface configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// BackendConfig holds the marketplace backend API configuration
type BackendConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// SearchConfig holds engine tuning knobs
type SearchConfig struct {
	PageSize          int    `mapstructure:"page_size"`
	DebounceMillis    int    `mapstructure:"debounce_millis"`
	CatalogTTLSeconds int    `mapstructure:"catalog_ttl_seconds"`
	SessionID         string `mapstructure:"session_id"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("backend.base_url", "http://localhost:9090/api")
	viper.SetDefault("backend.timeout", 30)
	viper.SetDefault("backend.max_retries", 3)
	viper.SetDefault("backend.max_requests_per_second", 10)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)

	viper.SetDefault("search.page_size", 12)
	viper.SetDefault("search.debounce_millis", 300)
	viper.SetDefault("search.catalog_ttl_seconds", 300)
	viper.SetDefault("search.session_id", "default")
}
