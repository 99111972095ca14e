package llm

import "context"

// Client runs chat completions.
type Client interface {
	// Complete sends the conversation and returns the model's reply.
	Complete(ctx context.Context, messages []Message, opts *CompletionOptions) (*CompletionResponse, error)
	// CompleteWithSystem is a shortcut for a system prompt plus a
	// single user message.
	CompleteWithSystem(ctx context.Context, system, user string, opts *CompletionOptions) (*CompletionResponse, error)
}
