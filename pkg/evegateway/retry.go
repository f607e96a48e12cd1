package evegateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// errorLimitWarnThreshold is the X-ESI-Error-Limit-Remain value below which every response is logged.
const errorLimitWarnThreshold = 50

// RetryClient sends a request, retrying transient failures, and tracks the ESI error budget.
type RetryClient interface {
	DoWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error)
	ErrorLimits() ESIErrorLimits
}

// DefaultRetryClient implements retry logic with exponential backoff
type DefaultRetryClient struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	errorLimits *ESIErrorLimits
	limitsMutex *sync.RWMutex
	backoffUnit time.Duration
}

// NewDefaultRetryClient creates a new default retry client. A nil limiter disables
// client side rate limiting.
func NewDefaultRetryClient(httpClient *http.Client, limiter *rate.Limiter, errorLimits *ESIErrorLimits, limitsMutex *sync.RWMutex) *DefaultRetryClient {
	return &DefaultRetryClient{
		httpClient:  httpClient,
		limiter:     limiter,
		errorLimits: errorLimits,
		limitsMutex: limitsMutex,
		backoffUnit: time.Second,
	}
}

// DoWithRetry makes an HTTP request with retry logic and proper error handling.
// Only idempotent reads and the bulk name lookup go through here.
func (r *DefaultRetryClient) DoWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		reqClone := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			reqClone.Body = body
		}

		resp, err = r.httpClient.Do(reqClone)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, err)
			}
			if err := r.sleep(ctx, capped(r.backoffUnit, attempt, 10*r.backoffUnit)); err != nil {
				return nil, err
			}
			continue
		}

		// All errors except 404 count against the ESI error limit
		if resp.StatusCode != http.StatusNotFound {
			r.updateErrorLimits(ctx, req, resp.Header)
		}

		if resp.StatusCode >= 500 || resp.StatusCode == 420 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()

			if attempt == maxRetries {
				return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: req.URL.Path}
			}
			if err := r.backoffForError(ctx, resp.StatusCode, attempt); err != nil {
				return nil, err
			}
			continue
		}

		break
	}

	return resp, nil
}

// ErrorLimits returns a snapshot of the last seen ESI error limit headers.
func (r *DefaultRetryClient) ErrorLimits() ESIErrorLimits {
	r.limitsMutex.RLock()
	defer r.limitsMutex.RUnlock()
	return *r.errorLimits
}

func (r *DefaultRetryClient) updateErrorLimits(ctx context.Context, req *http.Request, headers http.Header) {
	r.limitsMutex.Lock()
	defer r.limitsMutex.Unlock()

	if resetStr := headers.Get("X-ESI-Error-Limit-Reset"); resetStr != "" {
		if reset, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			r.errorLimits.Reset = time.Now().Add(time.Duration(reset) * time.Second)
		}
	}

	if windowStr := headers.Get("X-ESI-Error-Limit-Window"); windowStr != "" {
		if window, err := strconv.Atoi(windowStr); err == nil {
			r.errorLimits.Window = window
		}
	}

	if remainStr := headers.Get("X-ESI-Error-Limit-Remain"); remainStr != "" {
		if remain, err := strconv.Atoi(remainStr); err == nil {
			r.errorLimits.Remain = remain
			if remain <= errorLimitWarnThreshold {
				slog.ErrorContext(ctx, "ESI error limit running low",
					"x_esi_error_limit_remain", remain,
					"endpoint", req.URL.Path,
					"method", req.Method,
					"reset_time", r.errorLimits.Reset.Format(time.RFC3339),
					"window", r.errorLimits.Window,
				)
			}
		}
	}
}

// backoffForError implements exponential backoff based on HTTP status codes
func (r *DefaultRetryClient) backoffForError(ctx context.Context, statusCode int, attempt int) error {
	var backoffDuration time.Duration

	switch {
	case statusCode == 420: // ESI error limit exceeded
		backoffDuration = capped(60*r.backoffUnit, attempt, 600*r.backoffUnit)
	case statusCode >= 500:
		backoffDuration = capped(r.backoffUnit, attempt, 30*r.backoffUnit)
	case statusCode == http.StatusTooManyRequests:
		backoffDuration = capped(r.backoffUnit, attempt, 60*r.backoffUnit)
	default:
		return nil
	}

	slog.WarnContext(ctx, "ESI error requires backoff",
		"status_code", statusCode,
		"attempt", attempt,
		"backoff_duration", backoffDuration.String())

	return r.sleep(ctx, backoffDuration)
}

func (r *DefaultRetryClient) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func capped(base time.Duration, attempt int, max time.Duration) time.Duration {
	d := base * time.Duration(1<<uint(attempt))
	if d > max {
		return max
	}
	return d
}
