package tracker

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Response headers carrying pagination totals.
const (
	HeaderTotalPages = "X-Total-Pages"
	HeaderTotalCount = "X-Total-Count"
)

// Page is one page of a list result. Totals come from the response
// headers and may be zero when the server omits them.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalPages int
	TotalCount int
}

// PageFetcher fetches a single page of results for a path.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, path string, params *QueryParams) (*Page[T], error)
}

// PageFetcherFunc adapts a function to the PageFetcher interface.
type PageFetcherFunc[T any] func(ctx context.Context, path string, params *QueryParams) (*Page[T], error)

// FetchPage implements PageFetcher.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, path string, params *QueryParams) (*Page[T], error) {
	return f(ctx, path, params)
}

// PaginationOptions bounds a multi-page fetch.
type PaginationOptions struct {
	PerPage  int
	MaxPages int
}

// PageIterator walks a paginated listing item by item, fetching pages
// lazily and sequentially. It is not safe for concurrent use.
type PageIterator[T any] struct {
	ctx     context.Context
	fetcher PageFetcher[T]
	path    string
	params  *QueryParams
	buffer  []T
	index   int
	page    int
	fetched bool
	done    bool
}

// NewPageIterator creates an iterator over the listing at path.
func NewPageIterator[T any](ctx context.Context, fetcher PageFetcher[T], path string, params *QueryParams) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:     ctx,
		fetcher: fetcher,
		path:    path,
		params:  params,
	}
}

// HasNext reports whether another item may be available. It never
// fetches; an empty listing is only discovered by Next.
func (it *PageIterator[T]) HasNext() bool {
	if it.index < len(it.buffer) {
		return true
	}

	return !it.fetched || !it.done
}

// Next returns the next item, fetching the next page when the current
// one is exhausted. It returns ErrNoMoreItems past the end.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	for it.index >= len(it.buffer) {
		if it.fetched && it.done {
			return zero, ErrNoMoreItems
		}

		err := it.fetchNext()
		if err != nil {
			return zero, err
		}
	}

	item := it.buffer[it.index]
	it.index++

	return item, nil
}

// All fetches every remaining item.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return items, nil
			}

			return nil, err
		}

		items = append(items, item)
	}
}

// ForEach invokes fn for every remaining item, stopping on the first
// error.
func (it *PageIterator[T]) ForEach(fn func(T) error) error {
	for {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}
}

func (it *PageIterator[T]) fetchNext() error {
	params := cloneParams(it.params)
	if params.PerPage == 0 {
		params.WithPerPage(DefaultPerPage)
	}

	it.page++
	params.WithPage(it.page)

	page, err := it.fetcher.FetchPage(it.ctx, it.path, params)
	if err != nil {
		// A failed fetch ends the sequence; resuming past it would
		// silently skip the failed page's items.
		it.fetched = true
		it.done = true

		return fmt.Errorf("fetching page %d: %w", it.page, err)
	}

	it.fetched = true
	it.buffer = page.Items
	it.index = 0

	switch {
	case len(page.Items) == 0:
		it.done = true
	case page.TotalPages > 0:
		it.done = it.page >= page.TotalPages
	default:
		it.done = len(page.Items) < params.PerPage
	}

	return nil
}

// FetchAllPages collects every item of a listing, bounded by options.
func FetchAllPages[T any](ctx context.Context, fetcher PageFetcher[T], path string, params *QueryParams, options *PaginationOptions) ([]T, error) {
	var items []T

	err := ForEachPage(ctx, fetcher, path, params, options, func(page *Page[T]) error {
		items = append(items, page.Items...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ForEachPage invokes fn for every non-empty page of a listing, in
// order. An empty listing invokes fn zero times.
func ForEachPage[T any](ctx context.Context, fetcher PageFetcher[T], path string, params *QueryParams, options *PaginationOptions, fn func(*Page[T]) error) error {
	base := cloneParams(params)
	if options != nil && options.PerPage > 0 {
		base.WithPerPage(options.PerPage)
	}

	if base.PerPage == 0 {
		base.WithPerPage(DefaultPerPage)
	}

	for pageNum := 1; ; pageNum++ {
		if options != nil && options.MaxPages > 0 && pageNum > options.MaxPages {
			return nil
		}

		pageParams := cloneParams(base)
		pageParams.WithPage(pageNum)

		page, err := fetcher.FetchPage(ctx, path, pageParams)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNum, err)
		}

		if len(page.Items) == 0 {
			return nil
		}

		err = fn(page)
		if err != nil {
			return err
		}

		if page.TotalPages > 0 && pageNum >= page.TotalPages {
			return nil
		}

		if page.TotalPages == 0 && len(page.Items) < pageParams.PerPage {
			return nil
		}
	}
}

// PageResult is one streamed page, or the error that stopped the stream.
type PageResult[T any] struct {
	Items []T
	Page  int
	Err   error
}

// StreamPages fetches pages sequentially and delivers them on a channel.
// The channel closes after the last page or the first error.
func StreamPages[T any](ctx context.Context, fetcher PageFetcher[T], path string, params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		err := ForEachPage(ctx, fetcher, path, params, options, func(page *Page[T]) error {
			select {
			case results <- PageResult[T]{Items: page.Items, Page: page.Page}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			select {
			case results <- PageResult[T]{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return results
}

func cloneParams(params *QueryParams) *QueryParams {
	clone := NewQueryParams()
	if params == nil {
		return clone
	}

	clone.Page = params.Page
	clone.PerPage = params.PerPage
	clone.Order = params.Order
	clone.Expand = slices.Clone(params.Expand)
	clone.Filters = maps.Clone(params.Filters)

	if clone.Filters == nil {
		clone.Filters = make(map[string][]string)
	}

	return clone
}
