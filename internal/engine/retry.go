package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig shapes the exponential backoff used for LLM and job-board
// calls.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig: 3 retries, 500ms doubling up to 10s.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// backoff returns the wait before retry number attempt (0-based). A
// Retry-After hint from the server overrides a shorter computed wait;
// MaxWait caps both.
func (rc RetryConfig) backoff(attempt int, err error) time.Duration {
	wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
	if wait > rc.MaxWait {
		wait = rc.MaxWait
	}
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > wait {
		wait = min(httpErr.RetryAfter, rc.MaxWait)
	}
	return wait
}

// RetryDo runs fn with exponential backoff, retrying transient errors:
// 429/5xx statuses, connection failures, DNS hiccups and timeouts.
// Permanent errors return after the first attempt.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		if !isRetryable(err) || attempt >= rc.MaxRetries {
			return zero, err
		}

		wait := rc.backoff(attempt, err)
		slog.Debug("retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.Any("error", err))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// RetryHTTP wraps an HTTP round trip in RetryDo, turning retryable
// status codes into errors so the backoff applies. Rate-limit replies
// carry the server's Retry-After hint into the wait.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &httpStatusError{
				StatusCode: resp.StatusCode,
				RetryAfter: retryAfter(resp.Header),
			}
		}
		return resp, nil
	})
}

// retryAfter reads the delay-seconds form of Retry-After. The HTTP-date
// form is rare on the APIs involved here and is ignored.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// httpStatusError marks a retryable HTTP reply. RetryAfter is the
// server's own backoff hint, zero when absent.
type httpStatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// isRetryable reports whether the error is transient. The net.Error
// timeout check runs after the concrete types: OpError is itself a
// net.Error and would otherwise be judged by its timeout flag alone.
func isRetryable(err error) bool {
	var (
		httpErr *httpStatusError
		opErr   *net.OpError
		dnsErr  *net.DNSError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &httpErr):
		return true // status already filtered by isRetryableStatus
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.As(err, &netErr):
		return netErr.Timeout()
	}
	return false
}

// isRetryableStatus: rate limits and transient server failures.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
