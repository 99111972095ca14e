package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonFir/multitool/internal/constants"
	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration persisted to the config file.
type Config struct {
	// Tracker settings
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	OrgID    string `json:"org_id,omitempty"   yaml:"org_id,omitempty"`
	Token    string `json:"token,omitempty"    yaml:"token,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// LLM settings
	Model    string `json:"model,omitempty"     yaml:"model,omitempty"`
	LLMToken string `json:"llm_token,omitempty" yaml:"llm_token,omitempty"`
	SiteURL  string `json:"site_url,omitempty"  yaml:"site_url,omitempty"`
	AppName  string `json:"app_name,omitempty"  yaml:"app_name,omitempty"`

	// Global settings
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// configKeys lists the keys accepted by 'config set' and 'config unset'.
var configKeys = []string{
	"endpoint", "org_id", "token", "language",
	"model", "llm_token", "site_url", "app_name",
	"output",
}

func loadConfig() *Config {
	return &Config{
		Endpoint: viper.GetString("endpoint"),
		OrgID:    viper.GetString("org_id"),
		Token:    viper.GetString("token"),
		Language: viper.GetString("language"),
		Model:    viper.GetString("model"),
		LLMToken: viper.GetString("llm_token"),
		SiteURL:  viper.GetString("site_url"),
		AppName:  viper.GetString("app_name"),
		Output:   viper.GetString("output"),
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".multitool")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage multitool CLI configuration including endpoints, tokens and defaults",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration, with tokens masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// Tokens never leave the config file in clear text.
			display := *config
			if display.Token != "" {
				display.Token = constants.MaskedSecret
			}

			if display.LLMToken != "" {
				display.LLMToken = constants.MaskedSecret
			}

			return renderOutput(display, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")
				_ = table.Append("endpoint", defaultString(display.Endpoint, tracker.DefaultBaseURL))
				_ = table.Append("org_id", defaultString(display.OrgID, NotAvailable))
				_ = table.Append("token", defaultString(display.Token, NotAvailable))
				_ = table.Append("language", defaultString(display.Language, tracker.DefaultLanguage))
				_ = table.Append("model", defaultString(display.Model, NotAvailable))
				_ = table.Append("llm_token", defaultString(display.LLMToken, NotAvailable))
				_ = table.Append("site_url", defaultString(display.SiteURL, NotAvailable))
				_ = table.Append("app_name", defaultString(display.AppName, NotAvailable))
				_ = table.Append("output", defaultString(display.Output, "table"))
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and persist it to the config file",
		Args:  cobra.ExactArgs(constants.TwoArgumentsRequired),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !isConfigKey(key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			if value == "" {
				return fmt.Errorf("%w: %s", ErrConfigValueRequired, key)
			}

			viper.Set(key, value)

			err := saveConfigStruct(loadConfig())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !isConfigKey(key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			viper.Set(key, "")

			err := saveConfigStruct(loadConfig())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

func isConfigKey(key string) bool {
	for _, known := range configKeys {
		if key == known {
			return true
		}
	}

	return false
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
