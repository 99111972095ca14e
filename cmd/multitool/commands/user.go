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

// NewUserCommand creates the user command group.
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage tracker users",
		Long:  "Look up tracker user accounts",
	}

	cmd.AddCommand(newUserCurrentCommand())
	cmd.AddCommand(newUserGetCommand())
	cmd.AddCommand(newUserListCommand())

	return cmd
}

func newUserCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current user",
		Long:  "Show the account owning the configured token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Current(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get current user: %w", err)
			}

			return renderOutput(user, func() error {
				return renderUserTable(user)
			})
		},
	}
}

func newUserGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get LOGIN",
		Short: "Get a user",
		Long:  "Fetch a single user account by login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return renderOutput(user, func() error {
				return renderUserTable(user)
			})
		},
	}
}

func newUserListCommand() *cobra.Command {
	var (
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List the user accounts in the organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			params := tracker.NewQueryParams().WithPage(page).WithPerPage(perPage)

			result, err := client.Users().List(context.Background(), params)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return renderOutput(result.Items, func() error {
				if len(result.Items) == 0 {
					_, _ = os.Stdout.WriteString("No users found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Login", "Name", "Email")

				for _, user := range result.Items {
					name := user.Display
					if name == "" {
						name = NotAvailable
					}

					_ = table.Append(user.Login, name, user.Email)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPageSize, "results per page")

	return cmd
}

func renderUserTable(user *tracker.User) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("Login", user.Login)
	_ = table.Append("Name", user.Display)
	_ = table.Append("Email", user.Email)

	if user.Dismissed {
		_ = table.Append("Dismissed", "yes")
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
