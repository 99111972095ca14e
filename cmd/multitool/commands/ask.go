package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JonFir/multitool/pkg/llm"
	"github.com/spf13/cobra"
)

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	var (
		model       string
		system      string
		temperature float64
		maxTokens   int
		showUsage   bool
	)

	cmd := &cobra.Command{
		Use:   "ask PROMPT...",
		Short: "Ask an LLM",
		Long: `Send a prompt to the configured chat-completion model and print
the response. The prompt is the concatenation of all arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				return ErrPromptRequired
			}

			client, err := createLLMClient(model)
			if err != nil {
				return err
			}

			opts := &llm.CompletionOptions{}
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = llm.Float64(temperature)
			}

			if cmd.Flags().Changed("max-tokens") {
				opts.MaxTokens = llm.Int(maxTokens)
			}

			ctx := context.Background()

			var response *llm.CompletionResponse
			if system != "" {
				response, err = client.CompleteWithSystem(ctx, system, prompt, opts)
			} else {
				messages := []llm.Message{{Role: llm.RoleUser, Content: prompt}}
				response, err = client.Complete(ctx, messages, opts)
			}

			if err != nil {
				return fmt.Errorf("completion request failed: %w", err)
			}

			content, err := response.Content()
			if err != nil {
				return fmt.Errorf("reading completion response: %w", err)
			}

			return renderOutput(response, func() error {
				_, _ = fmt.Fprintln(os.Stdout, content)

				if showUsage {
					_, _ = fmt.Fprintf(os.Stderr, "tokens: %d prompt, %d completion\n",
						response.Usage.PromptTokens, response.Usage.CompletionTokens)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model identifier (default from config)")
	cmd.Flags().StringVar(&system, "system", "", "system prompt")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature (0-2)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "response token limit")
	cmd.Flags().BoolVar(&showUsage, "usage", false, "print token usage to stderr")

	return cmd
}
