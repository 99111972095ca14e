package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/JonFir/multitool/internal/http"
	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/JonFir/multitool/pkg/llm"
)

func newTestConfig(baseURL string) *llm.Config {
	return &llm.Config{
		BaseURL: baseURL,
		Token:   "test-token",
		Model:   "test/model",
	}
}

func completionResponse(content string) llm.CompletionResponse {
	return llm.CompletionResponse{
		ID:    "gen-1",
		Model: "test/model",
		Choices: []llm.Choice{
			{Index: 0, Message: llm.Message{Role: llm.RoleAssistant, Content: content}, FinishReason: "stop"},
		},
		Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/chat/completions", request.URL.Path)
		assert.Equal(t, "POST", request.Method)
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
		assert.Equal(t, "https://example.com", request.Header.Get("HTTP-Referer"))
		assert.Equal(t, "multitool", request.Header.Get("X-Title"))

		var body map[string]interface{}

		err := json.NewDecoder(request.Body).Decode(&body)
		assert.NoError(t, err)
		assert.Equal(t, "test/model", body["model"])
		assert.InDelta(t, 0.7, body["temperature"], 0.001)
		assert.InDelta(t, 200, body["max_tokens"], 0.001)
		assert.Len(t, body["messages"], 2)

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(completionResponse("hello"))
	}))
	defer server.Close()

	config := newTestConfig(server.URL)
	config.SiteURL = "https://example.com"
	config.AppName = "multitool"

	client, err := New(config)
	require.NoError(t, err)

	opts := &llm.CompletionOptions{
		Temperature: llm.Float64(0.7),
		MaxTokens:   llm.Int(200),
	}

	resp, err := client.Complete(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "be terse"},
		{Role: llm.RoleUser, Content: "hi"},
	}, opts)
	require.NoError(t, err)

	content, err := resp.Content()
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestCompleteWithSystem(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body llm.CompletionRequest

		err := json.NewDecoder(request.Body).Decode(&body)
		assert.NoError(t, err)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, llm.RoleSystem, body.Messages[0].Role)
		assert.Equal(t, "be terse", body.Messages[0].Content)
		assert.Equal(t, llm.RoleUser, body.Messages[1].Role)

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(completionResponse("ok"))
	}))
	defer server.Close()

	client, err := New(newTestConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.CompleteWithSystem(context.Background(), "be terse", "hi", nil)
	require.NoError(t, err)

	content, err := resp.Content()
	require.NoError(t, err)
	assert.Equal(t, "ok", content)
}

func TestCompleteRejectsInvalidOptionsBeforeDispatch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, err := New(newTestConfig(server.URL))
	require.NoError(t, err)

	opts := &llm.CompletionOptions{MaxTokens: llm.Int(-1)}

	resp, err := client.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, opts)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apiclient.IsConfiguration(err))
	assert.ErrorIs(t, err, llm.ErrInvalidOption)
	assert.Equal(t, int32(0), calls.Load(), "invalid options must not reach the server")
}

func TestCompleteMalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := New(newTestConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apiclient.IsDecode(err))
}

func TestCompleteNoMessages(t *testing.T) {
	t.Parallel()

	client, err := New(newTestConfig("http://localhost"))
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrMessagesRequired)
	assert.Nil(t, resp)
}

func TestCompleteAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"error":{"message":"invalid API key","type":"auth_error","code":401}}`))
	}))
	defer server.Close()

	client, err := New(newTestConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apiclient.IsAuthentication(err))
	assert.Contains(t, err.Error(), "invalid API key")
	assert.NotContains(t, err.Error(), "test-token")
}

func TestCompleteRateLimitRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if calls.Add(1) == 1 {
			writer.Header().Set("Retry-After", "0")
			writer.WriteHeader(http.StatusTooManyRequests)
			_, _ = writer.Write([]byte(`{"error":{"message":"rate limited"}}`))

			return
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(completionResponse("after retry"))
	}))
	defer server.Close()

	client, err := New(newTestConfig(server.URL), internalhttp.WithRetryConfig(2, time.Millisecond, 10*time.Millisecond))
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, nil)
	require.NoError(t, err)

	content, err := resp.Content()
	require.NoError(t, err)
	assert.Equal(t, "after retry", content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteServerErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte(`{"error":{"message":"upstream blew up"}}`))
	}))
	defer server.Close()

	client, err := New(newTestConfig(server.URL), internalhttp.WithRetryConfig(2, time.Millisecond, 10*time.Millisecond))
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, int32(1), calls.Load(), "completion POSTs must not be replayed on server errors")
	assert.True(t, strings.Contains(err.Error(), "upstream blew up"))
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *llm.Config
		wantErr error
	}{
		{name: "nil config", config: nil, wantErr: llm.ErrConfigRequired},
		{name: "missing token", config: &llm.Config{Model: "m"}, wantErr: llm.ErrTokenRequired},
		{name: "missing model", config: &llm.Config{Token: "t"}, wantErr: llm.ErrModelRequired},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(testCase.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.wantErr)
			assert.Nil(t, client)
		})
	}
}
