package llm

import (
	"fmt"
	"os"
	"time"
)

// Default connection settings. Completions can run long, so the
// timeout is far above the tracker default.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultTimeout = 120 * time.Second
)

// EnvToken is the environment variable read by ConfigFromEnv.
const EnvToken = "OPEN_ROUTER_TOKEN"

// Config holds everything needed to talk to the completion API.
type Config struct {
	// BaseURL is the API root.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Token is the bearer token. Never logged.
	Token string `json:"-" yaml:"-"`
	// Model names the model completions run against.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// SiteURL is sent as HTTP-Referer when set, for request attribution.
	SiteURL string `json:"site_url,omitempty" yaml:"site_url,omitempty"`
	// AppName is sent as X-Title when set.
	AppName string `json:"app_name,omitempty" yaml:"app_name,omitempty"`
	// Timeout bounds each request, retries included.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// UserAgent overrides the default User-Agent header.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	// Debug enables request/response logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// NewConfig creates a config with the default endpoint settings.
func NewConfig(token, model string) *Config {
	config := &Config{Token: token, Model: model}
	config.applyDefaults()

	return config
}

// ConfigFromEnv builds a config from the environment. OPEN_ROUTER_TOKEN
// must be set; there is no fallback value for the token.
func ConfigFromEnv(model string) (*Config, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return nil, fmt.Errorf("%w: %s", ErrEnvVarNotSet, EnvToken)
	}

	return NewConfig(token, model), nil
}

// Validate checks the config before any request is made. It never
// modifies the config; defaults are applied by the client on its own
// working copy.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if c.Token == "" {
		return ErrTokenRequired
	}

	if c.Model == "" {
		return ErrModelRequired
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}
