// Package completion implements the chat completion client against the
// HTTP transport layer.
package completion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonFir/multitool/internal/auth"
	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/llm"
)

const completionsPath = "/chat/completions"

func applyConfigDefaults(config *llm.Config) {
	if config.BaseURL == "" {
		config.BaseURL = llm.DefaultBaseURL
	}

	if config.Timeout == 0 {
		config.Timeout = llm.DefaultTimeout
	}
}

// Client implements the llm.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	model      string
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *llm.Config) []internalhttp.Option {
	httpOpts := []internalhttp.Option{
		internalhttp.WithErrorParser(llm.ParseErrorMessage),
		internalhttp.WithTimeout(config.Timeout),
	}

	if config.SiteURL != "" {
		httpOpts = append(httpOpts, internalhttp.WithDefaultHeader("HTTP-Referer", config.SiteURL))
	}

	if config.AppName != "" {
		httpOpts = append(httpOpts, internalhttp.WithDefaultHeader("X-Title", config.AppName))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// New creates a completion client. Extra options extend the transport.
func New(config *llm.Config, extraOpts ...internalhttp.Option) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	working := *config
	applyConfigDefaults(&working)
	config = &working

	httpOpts := createHTTPClientOptions(config)
	httpOpts = append(httpOpts, extraOpts...)

	tokenManager := auth.NewStaticTokenManager(config.Token)
	httpClient := internalhttp.NewClient(config.BaseURL, tokenManager, httpOpts...)

	return &Client{
		httpClient: httpClient,
		model:      config.Model,
	}, nil
}

// Complete implements llm.Client.Complete. Completion requests are not
// marked retry-safe: a completion may bill tokens even when the
// response is lost, so only rate limits and transport errors before
// dispatch get retried.
func (c *Client) Complete(ctx context.Context, messages []llm.Message, opts *llm.CompletionOptions) (*llm.CompletionResponse, error) {
	if len(messages) == 0 {
		return nil, llm.ErrMessagesRequired
	}

	err := opts.Validate()
	if err != nil {
		return nil, &apiclient.Error{
			Kind:    apiclient.ErrorKindConfiguration,
			Message: "invalid completion options",
			Err:     err,
		}
	}

	request := &llm.CompletionRequest{
		Model:    c.model,
		Messages: messages,
	}

	if opts != nil {
		request.CompletionOptions = *opts
	}

	resp, err := c.httpClient.Post(ctx, completionsPath, request)
	if err != nil {
		return nil, fmt.Errorf("running completion: %w", err)
	}

	var completion llm.CompletionResponse

	err = json.Unmarshal(resp.Body, &completion)
	if err != nil {
		return nil, apiclient.NewDecodeError("parsing completion response", err)
	}

	return &completion, nil
}

// CompleteWithSystem implements llm.Client.CompleteWithSystem.
func (c *Client) CompleteWithSystem(ctx context.Context, system, user string, opts *llm.CompletionOptions) (*llm.CompletionResponse, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}

	return c.Complete(ctx, messages, opts)
}
