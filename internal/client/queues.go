package client

import (
	"context"
	"fmt"
	"net/url"

	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/tracker"
)

// QueuesClient implements tracker.QueuesClient.
type QueuesClient struct {
	httpClient *internalhttp.Client
	basePath   string
}

// NewQueuesClient creates a new queues client.
func NewQueuesClient(httpClient *internalhttp.Client, prefix string) *QueuesClient {
	return &QueuesClient{
		httpClient: httpClient,
		basePath:   prefix + "/queues",
	}
}

// Get implements tracker.QueuesClient.Get.
func (c *QueuesClient) Get(ctx context.Context, key string) (*tracker.Queue, error) {
	if key == "" {
		return nil, tracker.ErrQueueKeyRequired
	}

	resp, err := c.httpClient.Get(ctx, c.basePath+"/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("getting queue: %w", err)
	}

	var queue tracker.Queue

	err = decode(resp.Body, "queue", &queue)
	if err != nil {
		return nil, err
	}

	return &queue, nil
}

// List implements tracker.QueuesClient.List.
func (c *QueuesClient) List(ctx context.Context, params *tracker.QueryParams) (*tracker.Page[tracker.Queue], error) {
	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, c.basePath, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing queues: %w", err)
	}

	var queues []tracker.Queue

	err = decode(resp.Body, "queues list", &queues)
	if err != nil {
		return nil, err
	}

	return newPage(queues, params, resp.Headers), nil
}

// ListAll implements tracker.QueuesClient.ListAll.
func (c *QueuesClient) ListAll(ctx context.Context, options *tracker.PaginationOptions) ([]tracker.Queue, error) {
	fetcher := tracker.PageFetcherFunc[tracker.Queue](func(ctx context.Context, path string, params *tracker.QueryParams) (*tracker.Page[tracker.Queue], error) {
		return c.List(ctx, params)
	})

	queues, err := tracker.FetchAllPages(ctx, fetcher, c.basePath, nil, options)
	if err != nil {
		return nil, fmt.Errorf("listing all queues: %w", err)
	}

	return queues, nil
}
