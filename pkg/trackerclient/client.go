// Package trackerclient provides the main entry point for creating
// tracker API clients.
package trackerclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonFir/multitool/internal/client"
	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/tracker"
)

// Option customizes the client beyond what Config carries.
type Option func(*options)

type options struct {
	httpOpts []internalhttp.Option
}

// WithLogger routes transport logs to the given logger.
func WithLogger(logger apiclient.Logger) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, internalhttp.WithLogger(logger))
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, internalhttp.WithRetryConfig(maxRetries, baseDelay, maxDelay))
	}
}

// WithCache caches GET responses in the given backend.
func WithCache(cache tracker.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, internalhttp.WithCache(tracker.NewResponseCache(cache), ttl))
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *apiclient.InterceptorChain) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, internalhttp.WithInterceptors(chain))
	}
}

// New creates a new tracker API client.
func New(config *tracker.Config, opts ...Option) (tracker.Client, error) {
	if config == nil {
		return nil, tracker.ErrConfigRequired
	}

	// Normalize on a copy; the caller's config stays untouched.
	working := *config
	config = &working

	if config.BaseURL != "" {
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	var collected options
	for _, opt := range opts {
		opt(&collected)
	}

	trackerClient, err := client.New(config, collected.httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating tracker client: %w", err)
	}

	return trackerClient, nil
}

// NewWithToken creates a new client from a token and organization ID,
// with default endpoint settings.
func NewWithToken(token, orgID string, opts ...Option) (tracker.Client, error) {
	return New(tracker.NewConfig(token, orgID), opts...)
}

// NewFromEnv creates a new client from TRACKER_OAUTH_TOKEN and
// TRACKER_ORG_ID. Missing variables are an error, never defaulted.
func NewFromEnv(opts ...Option) (tracker.Client, error) {
	config, err := tracker.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}

	return New(config, opts...)
}
