package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/JonFir/multitool/pkg/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConnReset = errors.New("connection reset by peer")

func responseWithStatus(status int, headers map[string]string) *http.Response {
	header := http.Header{}
	for key, value := range headers {
		header.Set(key, value)
	}

	return &http.Response{StatusCode: status, Header: header}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRetryPolicy_CheckRetry(t *testing.T) {
	t.Parallel()

	policy := apiclient.DefaultRetryPolicy()
	safeCtx := apiclient.MarkRetrySafe(context.Background())
	unsafeCtx := context.Background()

	tests := []struct {
		name      string
		ctx       context.Context
		resp      *http.Response
		err       error
		wantRetry bool
	}{
		{
			name:      "rate limit retried even when not retry-safe",
			ctx:       unsafeCtx,
			resp:      responseWithStatus(http.StatusTooManyRequests, nil),
			wantRetry: true,
		},
		{
			name:      "server error retried when retry-safe",
			ctx:       safeCtx,
			resp:      responseWithStatus(http.StatusInternalServerError, nil),
			wantRetry: true,
		},
		{
			name:      "server error not retried when not retry-safe",
			ctx:       unsafeCtx,
			resp:      responseWithStatus(http.StatusInternalServerError, nil),
			wantRetry: false,
		},
		{
			name:      "connection failure retried when retry-safe",
			ctx:       safeCtx,
			err:       errConnReset,
			wantRetry: true,
		},
		{
			name:      "connection failure not retried when not retry-safe",
			ctx:       unsafeCtx,
			err:       errConnReset,
			wantRetry: false,
		},
		{
			name:      "client error never retried",
			ctx:       safeCtx,
			resp:      responseWithStatus(http.StatusBadRequest, nil),
			wantRetry: false,
		},
		{
			name:      "success never retried",
			ctx:       safeCtx,
			resp:      responseWithStatus(http.StatusOK, nil),
			wantRetry: false,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			retry, err := policy.CheckRetry(testCase.ctx, testCase.resp, testCase.err)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantRetry, retry)
		})
	}
}

func TestRetryPolicy_CheckRetryCancelledContext(t *testing.T) {
	t.Parallel()

	policy := apiclient.DefaultRetryPolicy()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	retry, err := policy.CheckRetry(ctx, responseWithStatus(http.StatusTooManyRequests, nil), nil)
	require.Error(t, err)
	assert.False(t, retry)
}

func TestRetryPolicy_BackoffHonorsRetryAfter(t *testing.T) {
	t.Parallel()

	policy := apiclient.RetryPolicy{MaxRetries: 3, BaseDelay: 1 * time.Second, MaxDelay: 4 * time.Second}
	resp := responseWithStatus(http.StatusTooManyRequests, map[string]string{"Retry-After": "5"})

	// The server hint wins over the computed delay, even past the cap.
	delay := policy.Backoff(policy.BaseDelay, policy.MaxDelay, 0, resp)
	assert.Equal(t, 5*time.Second, delay)
}

func TestRetryPolicy_BackoffExponential(t *testing.T) {
	t.Parallel()

	policy := apiclient.RetryPolicy{MaxRetries: 3, BaseDelay: 1 * time.Second, MaxDelay: 10 * time.Second}

	assert.Equal(t, 1*time.Second, policy.Backoff(policy.BaseDelay, policy.MaxDelay, 0, nil))
	assert.Equal(t, 2*time.Second, policy.Backoff(policy.BaseDelay, policy.MaxDelay, 1, nil))
	assert.Equal(t, 4*time.Second, policy.Backoff(policy.BaseDelay, policy.MaxDelay, 2, nil))
	// Capped at the maximum.
	assert.Equal(t, 10*time.Second, policy.Backoff(policy.BaseDelay, policy.MaxDelay, 5, nil))
}

func TestRetryPolicy_BackoffIgnoresUnparseableHint(t *testing.T) {
	t.Parallel()

	policy := apiclient.DefaultRetryPolicy()
	resp := responseWithStatus(http.StatusTooManyRequests, map[string]string{"Retry-After": "soon"})

	delay := policy.Backoff(policy.BaseDelay, policy.MaxDelay, 0, resp)
	assert.Equal(t, policy.BaseDelay, delay)
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  string
		want   time.Duration
		wantOK bool
	}{
		{name: "delta seconds", value: "5", want: 5 * time.Second, wantOK: true},
		{name: "zero", value: "0", want: 0, wantOK: true},
		{name: "empty", value: "", wantOK: false},
		{name: "garbage", value: "soon", wantOK: false},
		{name: "negative", value: "-3", wantOK: false},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := apiclient.ParseRetryAfter(testCase.value)
			assert.Equal(t, testCase.wantOK, ok)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	t.Parallel()

	when := time.Now().Add(10 * time.Second).UTC().Format(http.TimeFormat)

	got, ok := apiclient.ParseRetryAfter(when)
	require.True(t, ok)
	assert.InDelta(t, 10*time.Second, got, float64(2*time.Second))
}
