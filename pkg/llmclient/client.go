// Package llmclient provides the main entry point for creating chat
// completion clients.
package llmclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonFir/multitool/internal/completion"
	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/llm"
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

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *apiclient.InterceptorChain) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, internalhttp.WithInterceptors(chain))
	}
}

// New creates a new chat completion client.
func New(config *llm.Config, opts ...Option) (llm.Client, error) {
	if config == nil {
		return nil, llm.ErrConfigRequired
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

	completionClient, err := completion.New(config, collected.httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	return completionClient, nil
}

// NewWithToken creates a new client from a token and model name, with
// default endpoint settings.
func NewWithToken(token, model string, opts ...Option) (llm.Client, error) {
	return New(llm.NewConfig(token, model), opts...)
}

// NewFromEnv creates a new client reading the token from
// OPEN_ROUTER_TOKEN. A missing variable is an error, never defaulted.
func NewFromEnv(model string, opts ...Option) (llm.Client, error) {
	config, err := llm.ConfigFromEnv(model)
	if err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}

	return New(config, opts...)
}
