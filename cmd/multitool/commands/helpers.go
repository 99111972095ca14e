package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JonFir/multitool/internal/constants"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/llm"
	"github.com/JonFir/multitool/pkg/llmclient"
	"github.com/JonFir/multitool/pkg/tracker"
	"github.com/JonFir/multitool/pkg/trackerclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = constants.NotAvailable

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrNotLoggedIn         = errors.New("no tracker token configured, run 'multitool login' or set TRACKER_OAUTH_TOKEN")
	ErrOrgRequired         = errors.New("no organization configured, use --org or set TRACKER_ORG_ID")
	ErrLLMTokenRequired    = errors.New("no LLM token configured, set OPEN_ROUTER_TOKEN or 'multitool config set llm_token'")
	ErrModelRequired       = errors.New("no model configured, use --model or 'multitool config set model'")
	ErrPromptRequired      = errors.New("prompt is required")
	ErrInvalidFilterFormat = errors.New("invalid filter format, expected key=value")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrConfigValueRequired = errors.New("configuration value is required")
	ErrNoSearchCriteria    = errors.New("at least one of --queue, --query or --filter is required")
	ErrNoUpdateFlags       = errors.New("nothing to update, pass --summary, --description, --set, --add or --remove")
)

// createTrackerClient builds a tracker client from flags, config file
// and environment.
func createTrackerClient() (tracker.Client, error) {
	token := viper.GetString("token")
	if token == "" {
		token = os.Getenv(tracker.EnvToken)
	}

	if token == "" {
		return nil, ErrNotLoggedIn
	}

	orgID := viper.GetString("org_id")
	if orgID == "" {
		orgID = os.Getenv(tracker.EnvOrgID)
	}

	if orgID == "" {
		return nil, ErrOrgRequired
	}

	config := &tracker.Config{
		BaseURL:  viper.GetString("endpoint"),
		Token:    token,
		OrgID:    orgID,
		Language: viper.GetString("language"),
		Debug:    viper.GetBool("verbose"),
	}

	var opts []trackerclient.Option
	if config.Debug {
		opts = append(opts, trackerclient.WithLogger(apiclient.NewWriterLogger(os.Stderr)))
	}

	client, err := trackerclient.New(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating tracker client: %w", err)
	}

	return client, nil
}

// createLLMClient builds an LLM client for the given model, falling
// back to the configured default model.
func createLLMClient(model string) (llm.Client, error) {
	if model == "" {
		model = viper.GetString("model")
	}

	if model == "" {
		return nil, ErrModelRequired
	}

	token := viper.GetString("llm_token")
	if token == "" {
		token = os.Getenv(llm.EnvToken)
	}

	if token == "" {
		return nil, ErrLLMTokenRequired
	}

	config := llm.NewConfig(token, model)
	config.SiteURL = viper.GetString("site_url")
	config.AppName = viper.GetString("app_name")
	config.Debug = viper.GetBool("verbose")

	var opts []llmclient.Option
	if config.Debug {
		opts = append(opts, llmclient.WithLogger(apiclient.NewWriterLogger(os.Stderr)))
	}

	client, err := llmclient.New(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	return client, nil
}

// renderOutput writes data as JSON or YAML per the output setting, or
// calls renderTable for the default format.
func renderOutput(data interface{}, renderTable func() error) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding to JSON: %w", err)
		}

		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding to YAML: %w", err)
		}

		return nil
	default:
		return renderTable()
	}
}

// entityDisplay returns the human-readable name of a linked entity.
func entityDisplay(entity *tracker.Entity) string {
	if entity == nil {
		return NotAvailable
	}

	if entity.Display != "" {
		return entity.Display
	}

	if entity.Key != "" {
		return entity.Key
	}

	return entity.ID
}

// truncate shortens a string for table cells.
func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}

	if limit <= 3 {
		return value[:limit]
	}

	return value[:limit-3] + "..."
}

// parseFilterArgs converts repeated key=value flags into a search
// filter map.
func parseFilterArgs(args []string) (map[string]interface{}, error) {
	if len(args) == 0 {
		return nil, nil
	}

	filter := make(map[string]interface{}, len(args))

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilterFormat, arg)
		}

		filter[key] = value
	}

	return filter, nil
}
