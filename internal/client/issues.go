package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/tracker"
)

// IssuesClient implements tracker.IssuesClient.
type IssuesClient struct {
	httpClient *internalhttp.Client
	basePath   string
}

// NewIssuesClient creates a new issues client.
func NewIssuesClient(httpClient *internalhttp.Client, prefix string) *IssuesClient {
	return &IssuesClient{
		httpClient: httpClient,
		basePath:   prefix + "/issues",
	}
}

// Get implements tracker.IssuesClient.Get.
func (c *IssuesClient) Get(ctx context.Context, key string, params *tracker.QueryParams) (*tracker.Issue, error) {
	if key == "" {
		return nil, tracker.ErrIssueKeyRequired
	}

	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, c.basePath+"/"+key, queryParams)
	if err != nil {
		return nil, fmt.Errorf("getting issue: %w", err)
	}

	var issue tracker.Issue

	err = decode(resp.Body, "issue", &issue)
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

// Create implements tracker.IssuesClient.Create.
func (c *IssuesClient) Create(ctx context.Context, request *tracker.CreateIssueRequest) (*tracker.Issue, error) {
	if request == nil || request.Queue == "" {
		return nil, tracker.ErrQueueKeyRequired
	}

	if request.Summary == "" {
		return nil, tracker.ErrSummaryRequired
	}

	resp, err := c.httpClient.Post(ctx, c.basePath+"/", request)
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	var issue tracker.Issue

	err = decode(resp.Body, "issue response", &issue)
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

// Update implements tracker.IssuesClient.Update.
func (c *IssuesClient) Update(ctx context.Context, key string, updates map[string]interface{}, options *tracker.UpdateOptions) (*tracker.Issue, error) {
	if key == "" {
		return nil, tracker.ErrIssueKeyRequired
	}

	if len(updates) == 0 {
		return nil, tracker.ErrNoUpdates
	}

	var query url.Values

	if options != nil && options.Version > 0 {
		query = url.Values{}
		query.Set("version", strconv.Itoa(options.Version))
	}

	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: http.MethodPatch,
		Path:   c.basePath + "/" + key,
		Query:  query,
		Body:   updates,
	})
	if err != nil {
		return nil, fmt.Errorf("updating issue: %w", err)
	}

	var issue tracker.Issue

	err = decode(resp.Body, "issue response", &issue)
	if err != nil {
		return nil, err
	}

	return &issue, nil
}

// Delete implements tracker.IssuesClient.Delete.
func (c *IssuesClient) Delete(ctx context.Context, key string) error {
	if key == "" {
		return tracker.ErrIssueKeyRequired
	}

	_, err := c.httpClient.Delete(ctx, c.basePath+"/"+key)
	if err != nil {
		return fmt.Errorf("deleting issue: %w", err)
	}

	return nil
}

// List implements tracker.IssuesClient.List.
func (c *IssuesClient) List(ctx context.Context, queue string, params *tracker.QueryParams) (*tracker.Page[tracker.Issue], error) {
	if queue == "" {
		return nil, tracker.ErrQueueKeyRequired
	}

	if params == nil {
		params = tracker.NewQueryParams()
	}

	queryParams := params.ToValues()
	queryParams.Set("queue", queue)

	resp, err := c.httpClient.Get(ctx, c.basePath, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	var issues []tracker.Issue

	err = decode(resp.Body, "issues list", &issues)
	if err != nil {
		return nil, err
	}

	return newPage(issues, params, resp.Headers), nil
}

// ListAll implements tracker.IssuesClient.ListAll.
func (c *IssuesClient) ListAll(ctx context.Context, queue string, options *tracker.PaginationOptions) ([]tracker.Issue, error) {
	if queue == "" {
		return nil, tracker.ErrQueueKeyRequired
	}

	fetcher := tracker.PageFetcherFunc[tracker.Issue](func(ctx context.Context, path string, params *tracker.QueryParams) (*tracker.Page[tracker.Issue], error) {
		return c.List(ctx, queue, params)
	})

	issues, err := tracker.FetchAllPages(ctx, fetcher, c.basePath, nil, options)
	if err != nil {
		return nil, fmt.Errorf("listing all issues: %w", err)
	}

	return issues, nil
}

// Transitions implements tracker.IssuesClient.Transitions.
func (c *IssuesClient) Transitions(ctx context.Context, key string) ([]tracker.Transition, error) {
	if key == "" {
		return nil, tracker.ErrIssueKeyRequired
	}

	resp, err := c.httpClient.Get(ctx, c.basePath+"/"+key+"/transitions", nil)
	if err != nil {
		return nil, fmt.Errorf("listing transitions: %w", err)
	}

	var transitions []tracker.Transition

	err = decode(resp.Body, "transitions", &transitions)
	if err != nil {
		return nil, err
	}

	return transitions, nil
}

// ExecuteTransition implements tracker.IssuesClient.ExecuteTransition.
func (c *IssuesClient) ExecuteTransition(ctx context.Context, key, transitionID string, request *tracker.ExecuteTransitionRequest) ([]tracker.Transition, error) {
	if key == "" {
		return nil, tracker.ErrIssueKeyRequired
	}

	if transitionID == "" {
		return nil, tracker.ErrTransitionIDRequired
	}

	path := c.basePath + "/" + key + "/transitions/" + transitionID + "/_execute"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("executing transition: %w", err)
	}

	var transitions []tracker.Transition

	err = decode(resp.Body, "transitions response", &transitions)
	if err != nil {
		return nil, err
	}

	return transitions, nil
}
