package apiclient

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"
)

type contextKey int

const retrySafeKey contextKey = iota

// Default retry policy values.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// MarkRetrySafe marks the request carried by ctx as safe to retry after
// transient failures. The transport applies it to idempotent methods
// automatically; callers apply it to mutating requests that are known to
// be replay-safe, such as read-only search POSTs.
func MarkRetrySafe(ctx context.Context) context.Context {
	return context.WithValue(ctx, retrySafeKey, true)
}

// IsRetrySafe reports whether the request carried by ctx may be retried
// after a transient failure.
func IsRetrySafe(ctx context.Context) bool {
	safe, ok := ctx.Value(retrySafeKey).(bool)

	return ok && safe
}

// RetryPolicy bounds and paces retries. MaxRetries counts retries after
// the initial try, so MaxRetries of 2 allows at most 3 tries in total.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy returns the policy used when callers configure none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
	}
}

// CheckRetry decides whether a request should be retried. Rate-limit
// responses are always retried within the attempt bound: the server
// explicitly asked for a later retry, so idempotency is not a concern.
// Connection failures and 5xx responses are retried only for requests
// marked retry-safe.
func (p RetryPolicy) CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return IsRetrySafe(ctx), nil
	}

	if resp == nil {
		return false, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return IsRetrySafe(ctx), nil
	}

	return false, nil
}

// Backoff computes the wait before the next try. A parseable Retry-After
// header always wins over the computed exponential delay; the hint is
// deliberately not capped by max.
func (p RetryPolicy) Backoff(minDelay, maxDelay time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil {
		hint, ok := ParseRetryAfter(resp.Header.Get("Retry-After"))
		if ok {
			return hint
		}
	}

	delay := time.Duration(math.Pow(2, float64(attemptNum)) * float64(minDelay))
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	return delay
}

// ParseRetryAfter parses a Retry-After header value, supporting both
// delta-seconds and HTTP-date forms.
func ParseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	seconds, err := strconv.Atoi(value)
	if err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}

	when, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}

	until := time.Until(when)
	if until < 0 {
		until = 0
	}

	return until, true
}
