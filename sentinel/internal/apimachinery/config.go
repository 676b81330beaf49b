package apimachinery

import (
	"errors"
	"time"

	"github.com/gr80mcbr/lwfm/sentinel/internal/crypto"
	"github.com/kelseyhightower/envconfig"
)

const envconfigPrefix = "SENTINEL"

// We use an exported interface to govern access to our config because the
// underlying struct has fields we don't want to expose.
type Config interface {
	Port() int
	HashedAPIToken() string
	TLSEnabled() bool
	TLSCertPath() string
	TLSKeyPath() string
	DispatchTimeout() time.Duration
}

type config struct {
	PortAttr            int    `envconfig:"PORT"`
	APITokenAttr        string `envconfig:"API_TOKEN" required:"true"`
	HashedAPITokenAttr  string
	TLSEnabledAttr      bool          `envconfig:"TLS_ENABLED"`
	TLSCertPathAttr     string        `envconfig:"TLS_CERT_PATH"`
	TLSKeyPathAttr      string        `envconfig:"TLS_KEY_PATH"`
	DispatchTimeoutAttr time.Duration `envconfig:"DISPATCH_TIMEOUT"`
}

// NewConfigWithDefaults returns a Config object with default values already
// applied. Callers are then free to set custom values for the remaining
// fields and/or override default values.
func NewConfigWithDefaults() Config {
	return &config{
		PortAttr:            8080,
		DispatchTimeoutAttr: 10 * time.Second,
	}
}

// GetConfigFromEnvironment returns configuration derived from environment
// variables
func GetConfigFromEnvironment() (Config, error) {
	c := NewConfigWithDefaults().(*config)
	if err := envconfig.Process(envconfigPrefix, c); err != nil {
		return c, err
	}

	if c.TLSEnabledAttr {
		if c.TLSCertPathAttr == "" {
			return c, errors.New(
				"with TLS enabled, a value is required for the " +
					"TLS_CERT_PATH environment variable",
			)
		}
		if c.TLSKeyPathAttr == "" {
			return c, errors.New(
				"with TLS enabled, a value is required for the " +
					"TLS_KEY_PATH environment variable",
			)
		}
	}

	c.HashedAPITokenAttr = crypto.ShortSHA("", c.APITokenAttr)
	// Don't let the unencrypted token float around in memory!
	c.APITokenAttr = ""

	return c, nil
}

func (c *config) Port() int {
	return c.PortAttr
}

func (c *config) HashedAPIToken() string {
	return c.HashedAPITokenAttr
}

func (c *config) TLSEnabled() bool {
	return c.TLSEnabledAttr
}

func (c *config) TLSCertPath() string {
	return c.TLSCertPathAttr
}

func (c *config) TLSKeyPath() string {
	return c.TLSKeyPathAttr
}

func (c *config) DispatchTimeout() time.Duration {
	return c.DispatchTimeoutAttr
}
