package client

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JonFir/multitool/pkg/tracker"
)

// NewTestClient creates a client against a test server, with a dummy
// token and defaults suitable for httptest.
func NewTestClient(baseURL string) *Client {
	config := &tracker.Config{
		BaseURL: baseURL,
		Token:   "test-token",
		OrgID:   "test-org",
	}

	client, err := New(config)
	if err != nil {
		panic(err)
	}

	return client
}

// writeJSON encodes v into the response with the given status.
func writeJSON(writer http.ResponseWriter, statusCode int, v interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(v)
}

// writePagedJSON encodes a listing response with pagination headers.
func writePagedJSON(writer http.ResponseWriter, totalPages, totalCount int, v interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.Header().Set(tracker.HeaderTotalPages, strconv.Itoa(totalPages))
	writer.Header().Set(tracker.HeaderTotalCount, strconv.Itoa(totalCount))
	writer.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(writer).Encode(v)
}

// writeAPIError encodes an error response in the tracker wire format.
func writeAPIError(writer http.ResponseWriter, statusCode int, messages ...string) {
	writeJSON(writer, statusCode, map[string]interface{}{
		"errorMessages": messages,
	})
}
