package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/JonFir/multitool/internal/constants"
	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewQueueCommand creates the queue command group.
func NewQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage tracker queues",
		Long:  "Get and list tracker queues",
	}

	cmd.AddCommand(newQueueGetCommand())
	cmd.AddCommand(newQueueListCommand())

	return cmd
}

func newQueueGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get QUEUE_KEY",
		Short: "Get a queue",
		Long:  "Fetch a single queue by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			queue, err := client.Queues().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get queue: %w", err)
			}

			return renderOutput(queue, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Key", queue.Key)
				_ = table.Append("Name", queue.Name)
				_ = table.Append("Description", truncate(queue.Description, constants.SummaryDisplayLength))
				_ = table.Append("Lead", entityDisplay(queue.Lead))
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newQueueListCommand() *cobra.Command {
	var (
		page     int
		perPage  int
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queues",
		Long:  "List the queues visible to the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var queues []tracker.Queue

			if allPages {
				queues, err = client.Queues().ListAll(ctx, nil)
				if err != nil {
					return fmt.Errorf("failed to list queues: %w", err)
				}
			} else {
				params := tracker.NewQueryParams().WithPage(page).WithPerPage(perPage)

				result, err := client.Queues().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list queues: %w", err)
				}

				queues = result.Items
			}

			return renderOutput(queues, func() error {
				return renderQueueListTable(queues)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPageSize, "results per page")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func renderQueueListTable(queues []tracker.Queue) error {
	if len(queues) == 0 {
		_, _ = os.Stdout.WriteString("No queues found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Name", "Lead")

	for _, queue := range queues {
		_ = table.Append(queue.Key, queue.Name, entityDisplay(queue.Lead))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
