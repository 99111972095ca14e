package tracker

import (
	"context"
	"sync"
	"time"
)

// DefaultBulkConcurrency bounds parallel requests when callers set none.
const DefaultBulkConcurrency = 5

// BulkUpdate is one issue update within a bulk run.
type BulkUpdate struct {
	Key     string
	Updates map[string]interface{}
	Options *UpdateOptions
	// Callback, when set, is invoked with the result as soon as this
	// update finishes.
	Callback func(result *BulkResult)
}

// BulkResult is the outcome of one update in a bulk run.
type BulkResult struct {
	Key      string
	Success  bool
	Issue    *Issue
	Error    error
	Duration time.Duration
}

// BulkUpdater applies many issue updates with bounded concurrency.
// Failed updates do not stop the rest; each result carries its own
// error.
type BulkUpdater struct {
	issues      IssuesClient
	concurrency int
	timeout     time.Duration
}

// NewBulkUpdater creates a bulk updater over an issues client.
func NewBulkUpdater(issues IssuesClient, concurrency int) *BulkUpdater {
	if concurrency <= 0 {
		concurrency = DefaultBulkConcurrency
	}

	return &BulkUpdater{
		issues:      issues,
		concurrency: concurrency,
		timeout:     DefaultTimeout,
	}
}

// SetTimeout sets the per-update timeout.
func (b *BulkUpdater) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs all updates and returns one result per update, in input
// order.
func (b *BulkUpdater) Execute(ctx context.Context, updates []BulkUpdate) []BulkResult {
	results := make([]BulkResult, len(updates))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, update := range updates {
		waitGroup.Add(1)

		go func(index int, update BulkUpdate) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOne(opCtx, update)
			result.Duration = time.Since(start)
			results[index] = *result

			if update.Callback != nil {
				update.Callback(result)
			}
		}(index, update)
	}

	waitGroup.Wait()

	return results
}

func (b *BulkUpdater) executeOne(ctx context.Context, update BulkUpdate) *BulkResult {
	result := &BulkResult{Key: update.Key}

	issue, err := b.issues.Update(ctx, update.Key, update.Updates, update.Options)
	result.Success = err == nil
	result.Issue = issue
	result.Error = err

	return result
}
