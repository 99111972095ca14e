package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JonFir/multitool/internal/constants"
	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewIssueCommand creates the issue command group.
func NewIssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage tracker issues",
		Long:  "Get, create, update, delete and list tracker issues",
	}

	cmd.AddCommand(newIssueGetCommand())
	cmd.AddCommand(newIssueCreateCommand())
	cmd.AddCommand(newIssueUpdateCommand())
	cmd.AddCommand(newIssueDeleteCommand())
	cmd.AddCommand(newIssueListCommand())
	cmd.AddCommand(newIssueTransitionsCommand())
	cmd.AddCommand(newIssueTransitionCommand())

	return cmd
}

func newIssueGetCommand() *cobra.Command {
	var expand []string

	cmd := &cobra.Command{
		Use:   "get ISSUE_KEY",
		Short: "Get an issue",
		Long:  "Fetch a single issue by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			var params *tracker.QueryParams
			if len(expand) > 0 {
				params = tracker.NewQueryParams().WithExpand(expand...)
			}

			issue, err := client.Issues().Get(context.Background(), args[0], params)
			if err != nil {
				return fmt.Errorf("failed to get issue: %w", err)
			}

			return renderOutput(issue, func() error {
				return renderIssueTable(issue)
			})
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "expand linked objects (transitions, comments, attachments)")

	return cmd
}

func newIssueCreateCommand() *cobra.Command {
	request := &tracker.CreateIssueRequest{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Long:  "Create a new issue in a queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			issue, err := client.Issues().Create(context.Background(), request)
			if err != nil {
				return fmt.Errorf("failed to create issue: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created issue %s\n", issue.Key)

			return renderOutput(issue, func() error {
				return renderIssueTable(issue)
			})
		},
	}

	cmd.Flags().StringVarP(&request.Queue, "queue", "q", "", "queue key (required)")
	cmd.Flags().StringVarP(&request.Summary, "summary", "s", "", "issue summary (required)")
	cmd.Flags().StringVarP(&request.Description, "description", "d", "", "issue description")
	cmd.Flags().StringVar(&request.Type, "type", "", "issue type")
	cmd.Flags().StringVar(&request.Priority, "priority", "", "issue priority")
	cmd.Flags().StringVar(&request.Assignee, "assignee", "", "assignee login")
	cmd.Flags().StringVar(&request.Parent, "parent", "", "parent issue key")
	cmd.Flags().StringSliceVar(&request.Tags, "tags", nil, "issue tags")
	cmd.Flags().StringSliceVar(&request.Followers, "followers", nil, "follower logins")
	_ = cmd.MarkFlagRequired("queue")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}

func newIssueUpdateCommand() *cobra.Command {
	var (
		summary     string
		description string
		setFlags    map[string]string
		addFlags    map[string]string
		removeFlags map[string]string
		version     int
	)

	cmd := &cobra.Command{
		Use:   "update ISSUE_KEY",
		Short: "Update an issue",
		Long:  "Apply a partial update to an issue, optionally guarded by a version for optimistic locking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := tracker.NewUpdateBuilder()

			if cmd.Flags().Changed("summary") {
				builder.Summary(summary)
			}

			if cmd.Flags().Changed("description") {
				builder.Description(description)
			}

			for field, value := range setFlags {
				builder.Field(field, tracker.Set(value))
			}

			for field, value := range addFlags {
				builder.Field(field, tracker.Add(value))
			}

			for field, value := range removeFlags {
				builder.Field(field, tracker.Remove(value))
			}

			updates, err := builder.Build()
			if err != nil {
				if errors.Is(err, tracker.ErrNoUpdates) {
					return ErrNoUpdateFlags
				}

				return fmt.Errorf("building update: %w", err)
			}

			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			var options *tracker.UpdateOptions
			if version > 0 {
				options = &tracker.UpdateOptions{Version: version}
			}

			issue, err := client.Issues().Update(context.Background(), args[0], updates, options)
			if err != nil {
				return fmt.Errorf("failed to update issue: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated issue %s\n", issue.Key)

			return renderOutput(issue, func() error {
				return renderIssueTable(issue)
			})
		},
	}

	cmd.Flags().StringVarP(&summary, "summary", "s", "", "new summary")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringToStringVar(&setFlags, "set", nil, "replace a field value (field=value)")
	cmd.Flags().StringToStringVar(&addFlags, "add", nil, "add to a collection field (field=value)")
	cmd.Flags().StringToStringVar(&removeFlags, "remove", nil, "remove from a collection field (field=value)")
	cmd.Flags().IntVar(&version, "version", 0, "expected issue version for optimistic locking")

	return cmd
}

func newIssueDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ISSUE_KEY",
		Short: "Delete an issue",
		Long:  "Delete an issue permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete issue '%s'? (y/N): ", key)

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			err = client.Issues().Delete(context.Background(), key)
			if err != nil {
				return fmt.Errorf("failed to delete issue: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted issue '%s'\n", key)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newIssueListCommand() *cobra.Command {
	var (
		page     int
		perPage  int
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list QUEUE_KEY",
		Short: "List issues in a queue",
		Long:  "List issues belonging to a queue, one page at a time or across all pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if allPages {
				issues, err := client.Issues().ListAll(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to list issues: %w", err)
				}

				return renderOutput(issues, func() error {
					return renderIssueListTable(issues)
				})
			}

			params := tracker.NewQueryParams().WithPage(page).WithPerPage(perPage)

			result, err := client.Issues().List(ctx, args[0], params)
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
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

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPageSize, "results per page")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newIssueTransitionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions ISSUE_KEY",
		Short: "List available transitions",
		Long:  "List the workflow transitions currently available for an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			transitions, err := client.Issues().Transitions(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list transitions: %w", err)
			}

			return renderOutput(transitions, func() error {
				return renderTransitionsTable(transitions)
			})
		},
	}
}

func newIssueTransitionCommand() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "transition ISSUE_KEY TRANSITION_ID",
		Short: "Execute a transition",
		Long:  "Move an issue through a workflow transition, optionally leaving a comment",
		Args:  cobra.ExactArgs(constants.TwoArgumentsRequired),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			var request *tracker.ExecuteTransitionRequest
			if comment != "" {
				request = &tracker.ExecuteTransitionRequest{Comment: comment}
			}

			transitions, err := client.Issues().ExecuteTransition(context.Background(), args[0], args[1], request)
			if err != nil {
				return fmt.Errorf("failed to execute transition: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Executed transition '%s' on issue '%s'\n", args[1], args[0])

			return renderOutput(transitions, func() error {
				return renderTransitionsTable(transitions)
			})
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "comment to add with the transition")

	return cmd
}

func renderIssueTable(issue *tracker.Issue) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("Key", issue.Key)
	_ = table.Append("Summary", issue.Summary)
	_ = table.Append("Status", entityDisplay(issue.Status))
	_ = table.Append("Type", entityDisplay(issue.Type))
	_ = table.Append("Priority", entityDisplay(issue.Priority))
	_ = table.Append("Queue", entityDisplay(issue.Queue))
	_ = table.Append("Assignee", entityDisplay(issue.Assignee))

	if len(issue.Tags) > 0 {
		_ = table.Append("Tags", strings.Join(issue.Tags, ", "))
	}

	if issue.Version > 0 {
		_ = table.Append("Version", fmt.Sprintf("%d", issue.Version))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderIssueListTable(issues []tracker.Issue) error {
	if len(issues) == 0 {
		_, _ = os.Stdout.WriteString("No issues found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Summary", "Status", "Assignee")

	for _, issue := range issues {
		_ = table.Append(
			issue.Key,
			truncate(issue.Summary, constants.SummaryDisplayLength),
			entityDisplay(issue.Status),
			entityDisplay(issue.Assignee),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderTransitionsTable(transitions []tracker.Transition) error {
	if len(transitions) == 0 {
		_, _ = os.Stdout.WriteString("No transitions available\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "To Status")

	for _, transition := range transitions {
		_ = table.Append(transition.ID, transition.Display, entityDisplay(transition.To))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
