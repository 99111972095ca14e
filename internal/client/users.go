package client

import (
	"context"
	"fmt"
	"net/url"

	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/tracker"
)

// UsersClient implements tracker.UsersClient.
type UsersClient struct {
	httpClient *internalhttp.Client
	prefix     string
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *internalhttp.Client, prefix string) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
		prefix:     prefix,
	}
}

// Current implements tracker.UsersClient.Current.
func (c *UsersClient) Current(ctx context.Context) (*tracker.User, error) {
	resp, err := c.httpClient.Get(ctx, c.prefix+"/myself", nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	var user tracker.User

	err = decode(resp.Body, "user", &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Get implements tracker.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, login string) (*tracker.User, error) {
	if login == "" {
		return nil, tracker.ErrLoginRequired
	}

	resp, err := c.httpClient.Get(ctx, c.prefix+"/users/"+login, nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	var user tracker.User

	err = decode(resp.Body, "user", &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List implements tracker.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, params *tracker.QueryParams) (*tracker.Page[tracker.User], error) {
	var queryParams url.Values
	if params != nil {
		queryParams = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, c.prefix+"/users", queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var users []tracker.User

	err = decode(resp.Body, "users list", &users)
	if err != nil {
		return nil, err
	}

	return newPage(users, params, resp.Headers), nil
}
