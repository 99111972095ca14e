// Package client implements the tracker API client against the HTTP
// transport layer.
package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonFir/multitool/internal/auth"
	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/tracker"
)

// Client implements the tracker.Client interface.
type Client struct {
	httpClient   *internalhttp.Client
	tokenManager auth.TokenManager
	baseURL      string
	apiVersion   string

	// Resource clients
	issues tracker.IssuesClient
	queues tracker.QueuesClient
	search tracker.SearchClient
	users  tracker.UsersClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *tracker.Config) []internalhttp.Option {
	httpOpts := []internalhttp.Option{
		internalhttp.WithAuthScheme("OAuth"),
		internalhttp.WithDefaultHeader("X-Org-ID", config.OrgID),
		internalhttp.WithDefaultHeader("Accept-Language", config.Language),
		internalhttp.WithErrorParser(tracker.ParseErrorMessage),
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.Timeout))
	}

	return httpOpts
}

// New creates a tracker API client. Extra options extend the transport,
// for example with a cache or interceptors.
func New(config *tracker.Config, extraOpts ...internalhttp.Option) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	working := *config
	applyConfigDefaults(&working)

	return newClient(&working, auth.NewStaticTokenManager(working.Token), extraOpts)
}

// NewWithTokenManager creates a tracker API client with a custom token
// manager, for callers that refresh tokens themselves. The config token
// is ignored; the manager is the only token source.
func NewWithTokenManager(config *tracker.Config, tokenManager auth.TokenManager, extraOpts ...internalhttp.Option) (*Client, error) {
	if config == nil {
		return nil, tracker.ErrConfigRequired
	}

	if config.OrgID == "" {
		return nil, tracker.ErrOrgIDRequired
	}

	working := *config
	applyConfigDefaults(&working)

	return newClient(&working, tokenManager, extraOpts)
}

func newClient(config *tracker.Config, tokenManager auth.TokenManager, extraOpts []internalhttp.Option) (*Client, error) {
	httpOpts := createHTTPClientOptions(config)
	httpOpts = append(httpOpts, extraOpts...)

	httpClient := internalhttp.NewClient(config.BaseURL, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.BaseURL,
		apiVersion:   config.APIVersion,
	}

	client.initializeResourceClients()

	return client, nil
}

func applyConfigDefaults(config *tracker.Config) {
	if config.BaseURL == "" {
		config.BaseURL = tracker.DefaultBaseURL
	}

	if config.APIVersion == "" {
		config.APIVersion = tracker.DefaultAPIVersion
	}

	if config.Language == "" {
		config.Language = tracker.DefaultLanguage
	}

	if config.Timeout == 0 {
		config.Timeout = tracker.DefaultTimeout
	}
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	prefix := "/" + c.apiVersion

	c.issues = NewIssuesClient(c.httpClient, prefix)
	c.queues = NewQueuesClient(c.httpClient, prefix)
	c.search = NewSearchClient(c.httpClient, prefix)
	c.users = NewUsersClient(c.httpClient, prefix)
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Resource client accessors

// Issues implements tracker.Client.Issues.
func (c *Client) Issues() tracker.IssuesClient {
	return c.issues
}

// Queues implements tracker.Client.Queues.
func (c *Client) Queues() tracker.QueuesClient {
	return c.queues
}

// Search implements tracker.Client.Search.
func (c *Client) Search() tracker.SearchClient {
	return c.search
}

// Users implements tracker.Client.Users.
func (c *Client) Users() tracker.UsersClient {
	return c.users
}

// decode unmarshals a success response body into target, classifying a
// malformed payload as a decode error so callers can branch on
// apiclient.IsDecode.
func decode(body []byte, what string, target interface{}) error {
	err := json.Unmarshal(body, target)
	if err != nil {
		return apiclient.NewDecodeError("parsing "+what, err)
	}

	return nil
}

// newPage assembles a page of items from a listing response, taking
// totals from the pagination headers. A listing without the headers
// still yields a usable single page.
func newPage[T any](items []T, params *tracker.QueryParams, headers http.Header) *tracker.Page[T] {
	page := &tracker.Page[T]{
		Items:   items,
		Page:    1,
		PerPage: tracker.DefaultPerPage,
	}

	if params != nil {
		if params.Page > 0 {
			page.Page = params.Page
		}

		if params.PerPage > 0 {
			page.PerPage = params.PerPage
		}
	}

	if totalPages, err := strconv.Atoi(headers.Get(tracker.HeaderTotalPages)); err == nil {
		page.TotalPages = totalPages
	}

	if totalCount, err := strconv.Atoi(headers.Get(tracker.HeaderTotalCount)); err == nil {
		page.TotalCount = totalCount
	}

	return page
}
