package tracker

import (
	"context"
)

// Client is the tracker API facade, giving access to the resource
// clients.
type Client interface {
	Issues() IssuesClient
	Queues() QueuesClient
	Search() SearchClient
	Users() UsersClient
}

// UpdateOptions tunes an issue update request.
type UpdateOptions struct {
	// Version enables optimistic locking: the update is rejected when
	// the issue has moved past this version.
	Version int
}

// IssuesClient manages issues.
type IssuesClient interface {
	// Get fetches a single issue by key. Params may request expanded
	// objects such as transitions or comments.
	Get(ctx context.Context, key string, params *QueryParams) (*Issue, error)
	// Create creates a new issue.
	Create(ctx context.Context, request *CreateIssueRequest) (*Issue, error)
	// Update applies a partial update built with UpdateBuilder.
	Update(ctx context.Context, key string, updates map[string]interface{}, options *UpdateOptions) (*Issue, error)
	// Delete removes an issue.
	Delete(ctx context.Context, key string) error
	// List returns one page of the issues in a queue.
	List(ctx context.Context, queue string, params *QueryParams) (*Page[Issue], error)
	// ListAll walks every page of the issues in a queue.
	ListAll(ctx context.Context, queue string, options *PaginationOptions) ([]Issue, error)
	// Transitions lists the workflow steps available for an issue.
	Transitions(ctx context.Context, key string) ([]Transition, error)
	// ExecuteTransition moves an issue through a workflow step.
	ExecuteTransition(ctx context.Context, key, transitionID string, request *ExecuteTransitionRequest) ([]Transition, error)
}

// QueuesClient manages queues.
type QueuesClient interface {
	Get(ctx context.Context, key string) (*Queue, error)
	List(ctx context.Context, params *QueryParams) (*Page[Queue], error)
	ListAll(ctx context.Context, options *PaginationOptions) ([]Queue, error)
}

// ScrollPage is one batch of a scrolled search, with the token needed
// to request the next batch.
type ScrollPage struct {
	Issues     []Issue
	ScrollID   string
	TotalCount int
}

// SearchClient runs issue searches.
type SearchClient interface {
	// Issues returns one page of search results.
	Issues(ctx context.Context, request *SearchRequest, params *QueryParams) (*Page[Issue], error)
	// AllIssues walks every page of search results.
	AllIssues(ctx context.Context, request *SearchRequest, options *PaginationOptions) ([]Issue, error)
	// Scroll runs a scrolled search for result sets too large to
	// paginate. Pass the previous page's ScrollID in options to
	// continue.
	Scroll(ctx context.Context, request *SearchRequest, options *ScrollOptions) (*ScrollPage, error)
}

// UsersClient reads user accounts.
type UsersClient interface {
	// Current returns the account owning the token.
	Current(ctx context.Context) (*User, error)
	Get(ctx context.Context, login string) (*User, error)
	List(ctx context.Context, params *QueryParams) (*Page[User], error)
}
