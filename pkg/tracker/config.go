package tracker

import (
	"fmt"
	"os"
	"time"
)

// Default connection settings.
const (
	DefaultBaseURL    = "https://api.tracker.yandex.net"
	DefaultAPIVersion = "v3"
	DefaultLanguage   = "en"
	DefaultTimeout    = 30 * time.Second
)

// Environment variables read by ConfigFromEnv.
const (
	EnvToken = "TRACKER_OAUTH_TOKEN"
	EnvOrgID = "TRACKER_ORG_ID"
)

// Config holds everything needed to talk to the tracker API.
type Config struct {
	// BaseURL is the API root, without the version segment.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIVersion is the version path segment, e.g. "v3".
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	// Token is the OAuth access token. Never logged.
	Token string `json:"-" yaml:"-"`
	// OrgID identifies the organization, sent as X-Org-ID.
	OrgID string `json:"org_id,omitempty" yaml:"org_id,omitempty"`
	// Language is sent as Accept-Language.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	// Timeout bounds each request, retries included.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// UserAgent overrides the default User-Agent header.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	// Debug enables request/response logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// NewConfig creates a config with the default endpoint settings.
func NewConfig(token, orgID string) *Config {
	config := &Config{Token: token, OrgID: orgID}
	config.applyDefaults()

	return config
}

// ConfigFromEnv builds a config from environment variables. Both
// TRACKER_OAUTH_TOKEN and TRACKER_ORG_ID must be set; there are no
// fallback values for credentials.
func ConfigFromEnv() (*Config, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return nil, fmt.Errorf("%w: %s", ErrEnvVarNotSet, EnvToken)
	}

	orgID := os.Getenv(EnvOrgID)
	if orgID == "" {
		return nil, fmt.Errorf("%w: %s", ErrEnvVarNotSet, EnvOrgID)
	}

	return NewConfig(token, orgID), nil
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

	if c.OrgID == "" {
		return ErrOrgIDRequired
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}

	if c.Language == "" {
		c.Language = DefaultLanguage
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}
