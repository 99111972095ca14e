package tracker_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIssue struct {
	ID   string
	Name string
}

// newPagedFetcher serves n items at the given page size, tracking how
// many pages were requested.
func newPagedFetcher(n, perPage int, fetchedPages *[]int) tracker.PageFetcherFunc[testIssue] {
	return func(_ context.Context, _ string, params *tracker.QueryParams) (*tracker.Page[testIssue], error) {
		pageNum := params.Page
		if pageNum == 0 {
			pageNum = 1
		}

		size := params.PerPage
		if size == 0 {
			size = perPage
		}

		if fetchedPages != nil {
			*fetchedPages = append(*fetchedPages, pageNum)
		}

		totalPages := (n + size - 1) / size

		start := (pageNum - 1) * size
		if start > n {
			start = n
		}

		end := start + size
		if end > n {
			end = n
		}

		items := make([]testIssue, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, testIssue{ID: strconv.Itoa(i + 1)})
		}

		return &tracker.Page[testIssue]{
			Items:      items,
			Page:       pageNum,
			PerPage:    size,
			TotalPages: totalPages,
			TotalCount: n,
		}, nil
	}
}

func TestPageIterator_HasNext(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(3, 2, nil)
	iterator := tracker.NewPageIterator(context.Background(), fetcher, "issues", tracker.NewQueryParams().WithPerPage(2))

	// Should have next before any fetch
	assert.True(t, iterator.HasNext())

	item1, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", item1.ID)

	assert.True(t, iterator.HasNext())

	item2, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", item2.ID)

	// Should still have next (page 2)
	assert.True(t, iterator.HasNext())

	item3, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "3", item3.ID)

	assert.False(t, iterator.HasNext())

	_, err = iterator.Next()
	require.ErrorIs(t, err, tracker.ErrNoMoreItems)
}

func TestPageIterator_FetchErrorEndsIteration(t *testing.T) {
	t.Parallel()

	inner := newPagedFetcher(6, 2, nil)
	fetcher := tracker.PageFetcherFunc[testIssue](func(ctx context.Context, path string, params *tracker.QueryParams) (*tracker.Page[testIssue], error) {
		if params != nil && params.Page == 2 {
			return nil, assert.AnError
		}

		return inner(ctx, path, params)
	})

	iterator := tracker.NewPageIterator(context.Background(), fetcher, "issues", tracker.NewQueryParams().WithPerPage(2))

	item1, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", item1.ID)

	item2, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", item2.ID)

	_, err = iterator.Next()
	require.ErrorIs(t, err, assert.AnError)

	// The failed page's items must not be skipped: the sequence ends
	// instead of resuming from page 3.
	assert.False(t, iterator.HasNext())

	_, err = iterator.Next()
	require.ErrorIs(t, err, tracker.ErrNoMoreItems)
}

func TestPageIterator_All(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(5, 2, nil)
	iterator := tracker.NewPageIterator(context.Background(), fetcher, "issues", tracker.NewQueryParams().WithPerPage(2))

	all, err := iterator.All()
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "5", all[4].ID)
}

func TestPageIterator_AllEmpty(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(0, 2, nil)
	iterator := tracker.NewPageIterator(context.Background(), fetcher, "issues", nil)

	all, err := iterator.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPageIterator_ForEach(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(2, 2, nil)
	iterator := tracker.NewPageIterator(context.Background(), fetcher, "issues", tracker.NewQueryParams().WithPerPage(2))

	var collected []string

	err := iterator.ForEach(func(issue testIssue) error {
		collected = append(collected, issue.ID)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, collected)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestForEachPage_PageCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     int
		perPage   int
		wantPages int
	}{
		{
			name:      "empty listing yields zero pages",
			items:     0,
			perPage:   10,
			wantPages: 0,
		},
		{
			name:      "fewer items than one page",
			items:     3,
			perPage:   10,
			wantPages: 1,
		},
		{
			name:      "exact multiple",
			items:     20,
			perPage:   10,
			wantPages: 2,
		},
		{
			name:      "partial last page",
			items:     25,
			perPage:   10,
			wantPages: 3,
		},
		{
			name:      "single item",
			items:     1,
			perPage:   1,
			wantPages: 1,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var fetchedPages []int

			fetcher := newPagedFetcher(testCase.items, testCase.perPage, &fetchedPages)
			options := &tracker.PaginationOptions{PerPage: testCase.perPage}

			pages := 0
			total := 0

			err := tracker.ForEachPage(context.Background(), fetcher, "issues", nil, options, func(page *tracker.Page[testIssue]) error {
				pages++
				total += len(page.Items)

				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, testCase.wantPages, pages)
			assert.Equal(t, testCase.items, total)

			// No page is fetched twice.
			seen := map[int]bool{}
			for _, pageNum := range fetchedPages {
				assert.False(t, seen[pageNum], "page %d fetched twice", pageNum)
				seen[pageNum] = true
			}
		})
	}
}

func TestFetchAllPages(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(5, 2, nil)

	items, err := tracker.FetchAllPages(context.Background(), fetcher, "issues", nil, &tracker.PaginationOptions{PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestFetchAllPages_WithMaxPages(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(5, 2, nil)
	options := &tracker.PaginationOptions{PerPage: 2, MaxPages: 2}

	items, err := tracker.FetchAllPages(context.Background(), fetcher, "issues", nil, options)
	require.NoError(t, err)
	assert.Len(t, items, 4) // Only first 2 pages
}

func TestStreamPages(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(3, 2, nil)

	results := tracker.StreamPages(context.Background(), fetcher, "issues", nil, &tracker.PaginationOptions{PerPage: 2})

	var all []testIssue

	pageCount := 0

	for result := range results {
		require.NoError(t, result.Err)

		all = append(all, result.Items...)
		pageCount++
	}

	assert.Equal(t, 2, pageCount)
	assert.Len(t, all, 3)
}
