package client

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/juju/errors"
)

// Config holds the route service connection configuration, loaded from
// the environment.
type Config struct {
	BaseURL        string        `env:"CHAINROUTE_API_URL" envDefault:"https://api.chainroute.io/v1"`
	APIKey         string        `env:"CHAINROUTE_API_KEY"`
	RequestTimeout time.Duration `env:"CHAINROUTE_API_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv parses the configuration from environment variables.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Annotatef(err, "failed to parse client config")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.NotValidf("empty base url")
	}
	if c.RequestTimeout <= 0 {
		return errors.NotValidf("request timeout %v", c.RequestTimeout)
	}
	return nil
}
