package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrTokenRequired    = errors.New("API token is required")
	ErrModelRequired    = errors.New("model is required")
	ErrEnvVarNotSet     = errors.New("environment variable is not set")
	ErrMessagesRequired = errors.New("at least one message is required")
	ErrInvalidOption    = errors.New("invalid completion option")
	ErrNoChoices        = errors.New("completion returned no choices")
)

// apiError is the wire format of error responses.
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// ParseErrorMessage extracts a human-readable message from an error
// response body, falling back to the raw body.
func ParseErrorMessage(statusCode int, body []byte) string {
	var wireErr apiError

	if err := json.Unmarshal(body, &wireErr); err == nil && wireErr.Error.Message != "" {
		return wireErr.Error.Message
	}

	return strings.TrimSpace(string(body))
}
