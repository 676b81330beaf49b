package redis

import (
	"crypto/tls"
	"fmt"

	"github.com/go-redis/redis"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "REDIS"

// config represents common configuration options for a Redis connection
type config struct {
	Enabled   bool   `envconfig:"ENABLED"`
	Host      string `envconfig:"HOST"`
	Port      int    `envconfig:"PORT" default:"6379"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `envconfig:"DB"`
	EnableTLS bool   `envconfig:"ENABLE_TLS"`
}

// Enabled returns true if a Redis connection has been configured. Redis only
// backs a best-effort cache, so the sentinel runs without it by default.
func Enabled() bool {
	c := config{}
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return false
	}
	return c.Enabled
}

// Client returns a connection to a Redis database specified by environment
// variables
func Client() (*redis.Client, error) {
	c := config{}
	err := envconfig.Process(envconfigPrefix, &c)
	if err != nil {
		return nil, errors.Wrap(
			err,
			"error getting redis configuration from environment",
		)
	}
	if c.Host == "" {
		return nil, errors.New(
			"a value is required for the REDIS_HOST environment variable",
		)
	}

	redisOpts := &redis.Options{
		Addr:       fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password:   c.Password,
		DB:         c.DB,
		MaxRetries: 5,
	}
	if c.EnableTLS {
		redisOpts.TLSConfig = &tls.Config{
			ServerName: c.Host,
		}
	}

	return redis.NewClient(redisOpts), nil
}
