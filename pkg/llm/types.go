package llm

import "fmt"

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a chat conversation.
type Message struct {
	Role    Role   `json:"role"    yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// CompletionOptions tune a completion request. Zero fields are omitted
// from the request body, leaving the model defaults in effect.
type CompletionOptions struct {
	Temperature      *float64 `json:"temperature,omitempty"       yaml:"temperature,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"        yaml:"max_tokens,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"             yaml:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" yaml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"  yaml:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"              yaml:"stop,omitempty"`
}

// Validate rejects out-of-range options before anything is sent.
func (o *CompletionOptions) Validate() error {
	if o == nil {
		return nil
	}

	if o.Temperature != nil && (*o.Temperature < 0 || *o.Temperature > 2) {
		return fmt.Errorf("%w: temperature %v not in [0, 2]", ErrInvalidOption, *o.Temperature)
	}

	if o.MaxTokens != nil && *o.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens %d must be positive", ErrInvalidOption, *o.MaxTokens)
	}

	if o.TopP != nil && (*o.TopP <= 0 || *o.TopP > 1) {
		return fmt.Errorf("%w: top_p %v not in (0, 1]", ErrInvalidOption, *o.TopP)
	}

	if o.FrequencyPenalty != nil && (*o.FrequencyPenalty < -2 || *o.FrequencyPenalty > 2) {
		return fmt.Errorf("%w: frequency_penalty %v not in [-2, 2]", ErrInvalidOption, *o.FrequencyPenalty)
	}

	if o.PresencePenalty != nil && (*o.PresencePenalty < -2 || *o.PresencePenalty > 2) {
		return fmt.Errorf("%w: presence_penalty %v not in [-2, 2]", ErrInvalidOption, *o.PresencePenalty)
	}

	return nil
}

// CompletionRequest is the wire payload for the completion endpoint.
type CompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	CompletionOptions
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"     yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"      yaml:"total_tokens"`
}

// Choice is one candidate completion.
type Choice struct {
	Index        int     `json:"index"         yaml:"index"`
	Message      Message `json:"message"       yaml:"message"`
	FinishReason string  `json:"finish_reason" yaml:"finish_reason"`
}

// CompletionResponse is the completion endpoint's reply.
type CompletionResponse struct {
	ID      string   `json:"id"      yaml:"id"`
	Model   string   `json:"model"   yaml:"model"`
	Created int64    `json:"created" yaml:"created"`
	Choices []Choice `json:"choices" yaml:"choices"`
	Usage   Usage    `json:"usage"   yaml:"usage"`
}

// Content returns the first choice's message content.
func (r *CompletionResponse) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", ErrNoChoices
	}

	return r.Choices[0].Message.Content, nil
}

// Helpers for building options literals.

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
