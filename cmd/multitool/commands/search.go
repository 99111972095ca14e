package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/JonFir/multitool/internal/constants"
	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var (
		queue    string
		query    string
		keys     []string
		filters  []string
		order    string
		page     int
		perPage  int
		allPages bool
		scroll   bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search issues",
		Long: `Search issues by queue, filter fields or query language expression.

Large result sets can be walked page by page, fetched in full with
--all, or scrolled server-side with --scroll.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilterArgs(filters)
			if err != nil {
				return err
			}

			if queue == "" && query == "" && filter == nil && len(keys) == 0 {
				return ErrNoSearchCriteria
			}

			request := &tracker.SearchRequest{
				Queue:  queue,
				Query:  query,
				Keys:   keys,
				Filter: filter,
				Order:  order,
			}

			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if scroll {
				return runScrollSearch(ctx, client, request, perPage)
			}

			if allPages {
				issues, err := client.Search().AllIssues(ctx, request, nil)
				if err != nil {
					return fmt.Errorf("failed to search issues: %w", err)
				}

				return renderOutput(issues, func() error {
					return renderIssueListTable(issues)
				})
			}

			params := tracker.NewQueryParams().WithPage(page).WithPerPage(perPage)

			result, err := client.Search().Issues(ctx, request, params)
			if err != nil {
				return fmt.Errorf("failed to search issues: %w", err)
			}

			err = renderOutput(result.Items, func() error {
				return renderIssueListTable(result.Items)
			})
			if err != nil {
				return err
			}

			if result.TotalPages > 1 {
				_, _ = fmt.Fprintf(os.Stdout, "Page %d of %d (%d issues total)\n",
					result.Page, result.TotalPages, result.TotalCount)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&queue, "queue", "q", "", "restrict the search to a queue")
	cmd.Flags().StringVar(&query, "query", "", "query language expression")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "issue keys to fetch")
	cmd.Flags().StringSliceVar(&filters, "filter", nil, "field filter (field=value, repeatable)")
	cmd.Flags().StringVar(&order, "order", "", "sort order, e.g. +status or -updatedAt")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPageSize, "results per page")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().BoolVar(&scroll, "scroll", false, "use server-side scrolling for large result sets")

	return cmd
}

// runScrollSearch walks the full result set with the scroll API,
// printing each batch as it arrives.
func runScrollSearch(ctx context.Context, client tracker.Client, request *tracker.SearchRequest, perScroll int) error {
	options := &tracker.ScrollOptions{
		Type:      tracker.ScrollTypeUnsorted,
		PerScroll: perScroll,
	}

	if request.Order != "" {
		options.Type = tracker.ScrollTypeSorted
	}

	var issues []tracker.Issue

	for {
		batch, err := client.Search().Scroll(ctx, request, options)
		if err != nil {
			return fmt.Errorf("failed to scroll search results: %w", err)
		}

		issues = append(issues, batch.Issues...)

		if len(batch.Issues) == 0 || batch.ScrollID == "" {
			break
		}

		options.ID = batch.ScrollID
	}

	return renderOutput(issues, func() error {
		return renderIssueListTable(issues)
	})
}
