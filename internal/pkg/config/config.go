package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL      string        `env:"UNIBLOG_API_URL,          default=http://localhost:8000"`
	HTTPTimeout     time.Duration `env:"UNIBLOG_HTTP_TIMEOUT,     default=10s"`
	CredentialsFile string        `env:"UNIBLOG_CREDENTIALS_FILE"`
	LogLevel        string        `env:"LOG_LEVEL,                default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,               default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
