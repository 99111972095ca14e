package tracker

import (
	"encoding/json"
	"errors"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrTokenRequired        = errors.New("token is required")
	ErrOrgIDRequired        = errors.New("organization id is required")
	ErrEnvVarNotSet         = errors.New("environment variable not set")
	ErrIssueKeyRequired     = errors.New("issue key is required")
	ErrQueueKeyRequired     = errors.New("queue key is required")
	ErrSummaryRequired      = errors.New("summary is required")
	ErrLoginRequired        = errors.New("login is required")
	ErrTransitionIDRequired = errors.New("transition id is required")
	ErrNoMoreItems          = errors.New("no more items")
	ErrNoUpdates            = errors.New("no field updates specified")
	ErrConflictingUpdate    = errors.New("conflicting updates for field")
	ErrReplacePairRequired  = errors.New("replace requires at least one pair")
)

// apiErrorBody is the error payload shape used by the tracker API.
type apiErrorBody struct {
	ErrorMessages []string            `json:"errorMessages"`
	Errors        map[string][]string `json:"errors"`
	StatusCode    int                 `json:"statusCode"`
}

// ParseErrorMessage extracts a readable message from an error response
// body, falling back to the raw body when it is not the documented shape.
func ParseErrorMessage(_ int, body []byte) string {
	var parsed apiErrorBody

	err := json.Unmarshal(body, &parsed)
	if err == nil {
		var parts []string

		parts = append(parts, parsed.ErrorMessages...)

		for field, messages := range parsed.Errors {
			for _, message := range messages {
				parts = append(parts, field+": "+message)
			}
		}

		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		return "request failed"
	}

	return message
}
