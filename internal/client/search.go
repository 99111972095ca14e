package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/tracker"
)

// HeaderScrollID carries the continuation token for scrolled searches.
const HeaderScrollID = "X-Scroll-Id"

// SearchClient implements tracker.SearchClient.
type SearchClient struct {
	httpClient *internalhttp.Client
	searchPath string
}

// NewSearchClient creates a new search client.
func NewSearchClient(httpClient *internalhttp.Client, prefix string) *SearchClient {
	return &SearchClient{
		httpClient: httpClient,
		searchPath: prefix + "/issues/_search",
	}
}

// Issues implements tracker.SearchClient.Issues. The search endpoint
// takes POST but does not mutate anything, so it is dispatched as
// retry-safe.
func (c *SearchClient) Issues(ctx context.Context, request *tracker.SearchRequest, params *tracker.QueryParams) (*tracker.Page[tracker.Issue], error) {
	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.PostRetrySafe(ctx, c.searchPath, queryParams, request)
	if err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}

	var issues []tracker.Issue

	err = decode(resp.Body, "search results", &issues)
	if err != nil {
		return nil, err
	}

	return newPage(issues, params, resp.Headers), nil
}

// AllIssues implements tracker.SearchClient.AllIssues.
func (c *SearchClient) AllIssues(ctx context.Context, request *tracker.SearchRequest, options *tracker.PaginationOptions) ([]tracker.Issue, error) {
	fetcher := tracker.PageFetcherFunc[tracker.Issue](func(ctx context.Context, path string, params *tracker.QueryParams) (*tracker.Page[tracker.Issue], error) {
		return c.Issues(ctx, request, params)
	})

	issues, err := tracker.FetchAllPages(ctx, fetcher, c.searchPath, nil, options)
	if err != nil {
		return nil, fmt.Errorf("searching all issues: %w", err)
	}

	return issues, nil
}

// Scroll implements tracker.SearchClient.Scroll.
func (c *SearchClient) Scroll(ctx context.Context, request *tracker.SearchRequest, options *tracker.ScrollOptions) (*tracker.ScrollPage, error) {
	queryParams := url.Values{}

	if options != nil {
		if options.ID != "" {
			// Continuing a scroll only needs the token.
			queryParams.Set("scrollId", options.ID)
		} else {
			scrollType := options.Type
			if scrollType == "" {
				scrollType = tracker.ScrollTypeUnsorted
			}

			queryParams.Set("scrollType", string(scrollType))

			if options.PerScroll > 0 {
				queryParams.Set("perScroll", strconv.Itoa(options.PerScroll))
			}

			if options.TTLMillis > 0 {
				queryParams.Set("scrollTTLMillis", strconv.Itoa(options.TTLMillis))
			}
		}
	} else {
		queryParams.Set("scrollType", string(tracker.ScrollTypeUnsorted))
	}

	resp, err := c.httpClient.PostRetrySafe(ctx, c.searchPath, queryParams, request)
	if err != nil {
		return nil, fmt.Errorf("scrolling search results: %w", err)
	}

	var issues []tracker.Issue

	err = decode(resp.Body, "scroll results", &issues)
	if err != nil {
		return nil, err
	}

	page := &tracker.ScrollPage{
		Issues:   issues,
		ScrollID: resp.Headers.Get(HeaderScrollID),
	}

	if totalCount, err := strconv.Atoi(resp.Headers.Get(tracker.HeaderTotalCount)); err == nil {
		page.TotalCount = totalCount
	}

	return page, nil
}
