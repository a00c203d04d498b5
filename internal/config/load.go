package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. EDU_SERVER_PORT.
const EnvPrefix = "EDU"

// defaults lists every known key with its default value. Keys without a
// sensible default (the JWT secret) are still listed so environment
// variables bind to them during Unmarshal.
var defaults = map[string]interface{}{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"auth.jwt_secret":                     "",
	"auth.token_lifetime_minutes":         1440,
	"auth.refresh_token_lifetime_minutes": 10080,
	"llm.gemini_api_key":                  "",
	"llm.model_name":                      "gemini-2.0-flash",
	"llm.prompt_template_path":            "",
	"llm.request_timeout_seconds":         30,
	"llm.temperature":                     0.7,
	"generation.max_count":                100,
	"generation.age_policy":               "clamp",
	"generation.dedup_window":             1000,
	"task.worker_count":                   2,
	"task.queue_size":                     100,
}

// Load configuration from environment variables and optionally a config file
// named config.yaml in the working directory.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
