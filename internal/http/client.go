// Package http implements the HTTP transport shared by the tracker and
// LLM clients: URL building, auth header injection, retries, and error
// classification.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/JonFir/multitool/internal/auth"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultTimeout = 30 * time.Second

// Request describes a single API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// RetrySafe marks a mutating request as safe to replay after
	// transient failures. Idempotent methods are retry-safe without it.
	RetrySafe bool
}

// Response is the raw result of a request. Decoding is left to the
// resource clients.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ErrorParser extracts a human-readable message from an error response
// body. Each API surface supplies its own.
type ErrorParser func(statusCode int, body []byte) string

// Cache stores serialized GET responses. Implementations decide
// eviction.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// cacheEntry is the serialized form of a cached response. Headers ride
// along with the body so header-driven pagination totals survive cache
// hits.
type cacheEntry struct {
	Headers http.Header `json:"headers"`
	Body    []byte      `json:"body"`
}

// Client is the HTTP transport.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	authScheme   string
	userAgent    string
	headers      map[string]string
	logger       apiclient.Logger
	debug        bool
	errorParser  ErrorParser
	policy       apiclient.RetryPolicy
	httpClient   *http.Client
	cache        Cache
	cacheTTL     time.Duration
	interceptors *apiclient.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger apiclient.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAuthScheme sets the Authorization scheme, e.g. "OAuth" or "Bearer".
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		c.authScheme = scheme
	}
}

// WithDefaultHeader adds a header to every request.
func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithRetryConfig sets the retry bounds and pacing.
func WithRetryConfig(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.policy = apiclient.RetryPolicy{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
			MaxDelay:   maxDelay,
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithErrorParser sets the error body parser.
func WithErrorParser(parser ErrorParser) Option {
	return func(c *Client) {
		c.errorParser = parser
	}
}

// WithInterceptors installs an interceptor chain around every request.
func WithInterceptors(chain *apiclient.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache enables GET response caching.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient creates a transport rooted at baseURL. A nil tokenManager
// produces unauthenticated requests.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		authScheme:   "Bearer",
		headers:      map[string]string{},
		logger:       apiclient.NoopLogger{},
		errorParser:  defaultErrorParser,
		policy:       apiclient.DefaultRetryPolicy(),
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes the request, retrying per the configured policy, and
// returns the raw response. Responses with status >= 400 are returned
// together with a classified error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.cache != nil && req.Method == http.MethodGet {
		if data, ok := c.cache.Get(ctx, cacheKey(req)); ok {
			if cached := decodeCachedResponse(data); cached != nil {
				return cached, nil
			}
		}
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var intercepted *apiclient.Request

	if c.interceptors != nil {
		intercepted = &apiclient.Request{
			Method:  req.Method,
			Path:    req.Path,
			Headers: httpReq.Header,
		}

		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	if c.debug {
		c.logRequest(req)
	}

	resp, attempts, err := c.execute(httpReq)
	if err != nil {
		netErr := apiclient.NewTransientNetworkError("request failed", err)
		netErr.Attempts = attempts

		if c.interceptors != nil {
			_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &apiclient.Response{Error: netErr})
		}

		return nil, fmt.Errorf("executing request: %w", netErr)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	if c.debug {
		c.logResponse(response, attempts)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		retryAfter, _ := apiclient.ParseRetryAfter(resp.Header.Get("Retry-After"))
		clientErr := apiclient.ClassifyStatus(resp.StatusCode, c.errorParser(resp.StatusCode, body), retryAfter)
		clientErr.Attempts = attempts

		if c.interceptors != nil {
			_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &apiclient.Response{
				StatusCode: resp.StatusCode,
				Headers:    resp.Header,
				Body:       body,
				Error:      clientErr,
			})
		}

		return response, clientErr
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &apiclient.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       body,
		})
		if err != nil {
			return nil, err
		}
	}

	if c.cache != nil && req.Method == http.MethodGet && resp.StatusCode == http.StatusOK {
		if data, marshalErr := json.Marshal(cacheEntry{Headers: resp.Header, Body: body}); marshalErr == nil {
			c.cache.Set(ctx, cacheKey(req), data, c.cacheTTL)
		}
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request. POSTs are not retried on transient
// failures; use PostRetrySafe for replay-safe bodies.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostRetrySafe performs a POST request that is safe to replay, such as
// a read-only search.
func (c *Client) PostRetrySafe(ctx context.Context, path string, query url.Values, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Query: query, Body: body, RetrySafe: true})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	fullURL := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	if retryEligible(req) {
		ctx = apiclient.MarkRetrySafe(ctx)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		httpReq.Header.Set("Authorization", c.authScheme+" "+token)
	}

	return httpReq, nil
}

// execute runs the request through go-retryablehttp and reports how many
// tries were made.
func (c *Client) execute(req *retryablehttp.Request) (*http.Response, int, error) {
	var attempts atomic.Int64

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = c.httpClient
	retryClient.RetryMax = c.policy.MaxRetries
	retryClient.RetryWaitMin = c.policy.BaseDelay
	retryClient.RetryWaitMax = c.policy.MaxDelay
	retryClient.Logger = nil
	// Keep the final response on exhaustion so it can be classified.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Backoff = c.policy.Backoff
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		attempts.Add(1)

		return c.policy.CheckRetry(ctx, resp, err)
	}

	resp, err := retryClient.Do(req)

	tries := int(attempts.Load())
	if tries == 0 {
		tries = 1
	}

	return resp, tries, err
}

func (c *Client) logRequest(req *Request) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"query":  req.Query.Encode(),
	})
}

func (c *Client) logResponse(resp *Response, attempts int) {
	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status":   resp.StatusCode,
		"attempts": attempts,
		"bytes":    len(resp.Body),
	})
}

// decodeCachedResponse deserializes a cache entry. A value that does
// not parse is treated as a miss and refetched.
func decodeCachedResponse(data []byte) *Response {
	var entry cacheEntry

	err := json.Unmarshal(data, &entry)
	if err != nil {
		return nil
	}

	headers := entry.Headers
	if headers == nil {
		headers = http.Header{}
	}

	return &Response{StatusCode: http.StatusOK, Headers: headers, Body: entry.Body}
}

func cacheKey(req *Request) string {
	if len(req.Query) == 0 {
		return req.Path
	}

	return req.Path + "?" + req.Query.Encode()
}

func retryEligible(req *Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodPatch, http.MethodDelete, http.MethodPut:
		return true
	default:
		return req.RetrySafe
	}
}

func defaultErrorParser(_ int, body []byte) string {
	message := strings.TrimSpace(string(body))
	if message == "" {
		return "request failed"
	}

	return message
}
