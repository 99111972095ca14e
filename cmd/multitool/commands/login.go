package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the tracker API",
		Long:  "Store a tracker OAuth token and organization ID, verifying them against the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Print("OAuth token: ")
				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = string(byteToken)
				fmt.Println()
			}

			if viper.GetString("org_id") == "" {
				return ErrOrgRequired
			}

			viper.Set("token", token)

			// Verify the credentials before persisting them.
			client, err := createTrackerClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Current(context.Background())
			if err != nil {
				return fmt.Errorf("verifying credentials: %w", err)
			}

			err = saveConfigStruct(loadConfig())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged in as %s\n", user.Login)

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "with-token", "", "tracker OAuth token (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Remove the stored tracker token from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("token", "")

			err := saveConfigStruct(loadConfig())
			if err != nil {
				return err
			}

			_, _ = os.Stdout.WriteString("Logged out\n")

			return nil
		},
	}
}
