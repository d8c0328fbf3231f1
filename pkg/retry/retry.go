// Package retry wraps network-bound calls (downloads, LLM APIs) in
// exponential backoff with jitter, retrying only errors classified as
// transient. Transcription chunks are deliberately not retried here;
// resuming from the ledger is the retry path for those.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

// Policy bundles the knobs for one class of retryable work.
type Policy struct {
	MaxAttempts uint64
	WaitMin     time.Duration
	WaitMax     time.Duration
	Retryable   func(error) bool
}

// DownloadPolicy retries flaky downloads: 3 attempts, up to 30s between.
func DownloadPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		WaitMin:     2 * time.Second,
		WaitMax:     30 * time.Second,
		Retryable:   IsRetryableDownload,
	}
}

// APIPolicy retries rate-limited or failing API calls: 4 attempts, up to
// 20s between.
func APIPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		WaitMin:     time.Second,
		WaitMax:     20 * time.Second,
		Retryable:   IsRetryableHTTP,
	}
}

// Do runs fn under the policy, sleeping with exponential backoff between
// attempts. Errors the policy classifies as permanent stop immediately.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.WaitMin
	bo.MaxInterval = policy.WaitMax
	bo.MaxElapsedTime = 0

	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
}

// IsRetryableHTTP reports whether an API error is worth retrying:
// 429 rate limits, 5xx server errors, and network-level failures.
// Other 4xx responses are caller mistakes and never retried.
func IsRetryableHTTP(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 ||
			(apiErr.HTTPStatusCode >= 500 && apiErr.HTTPStatusCode < 600)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range []string{"429", "rate limit", "quota", "resource_exhausted", "timeout", "connection"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// IsRetryableDownload classifies downloader failures. Transient network
// trouble is retried; a video that is gone, private or region-locked
// will not come back on retry.
func IsRetryableDownload(err error) bool {
	if err == nil {
		return false
	}
	if IsRetryableHTTP(err) {
		return true
	}

	msg := strings.ToLower(err.Error())

	for _, kw := range []string{"not found", "does not exist", "private", "deleted", "copyright", "geo", "region"} {
		if strings.Contains(msg, kw) {
			return false
		}
	}
	for _, kw := range []string{"network", "temporary", "unavailable", "reset", "refused"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
