// Package evegateway is a typed client for the EVE Online ESI API.
package evegateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"go-recruiter/pkg/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://esi.evetech.net/latest"

// Options configures a Client. Zero values select sensible defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Authorizer Authorizer
	// CacheManager caches public GET responses. Nil selects an in-memory cache
	// unless DisableCache is set.
	CacheManager CacheManager
	DisableCache bool
	MaxRetries   int
	// RateLimit is the maximum number of requests per second, 0 means unlimited.
	RateLimit float64
	// Concurrency bounds parallel page fetches.
	Concurrency int
	// BackoffUnit scales retry delays (default one second).
	BackoffUnit time.Duration
	// RetryClient replaces the default retrying transport. RateLimit and BackoffUnit
	// only apply to the default.
	RetryClient RetryClient
}

// Client represents an EVE Online ESI client
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	authorizer   Authorizer
	cacheManager CacheManager
	retryClient  RetryClient
	errorLimits  *ESIErrorLimits
	limitsMutex  sync.RWMutex
	maxRetries   int
	concurrency  int
	telemetry    bool
}

// Response is a decoded ESI response.
type Response[T any] struct {
	Data T
	// Expires is the upstream's freshness hint, nil when the header was missing.
	Expires *time.Time
	Pages   int
}

// NewClient creates a new EVE Online ESI client
func NewClient(opts Options) *Client {
	telemetry := config.GetBoolEnv("ENABLE_TELEMETRY", false)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		var transport http.RoundTripper = http.DefaultTransport
		if telemetry {
			transport = otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
					return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Host)
				}),
			)
		}
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		}
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     opts.BaseURL,
		userAgent:   opts.UserAgent,
		authorizer:  opts.Authorizer,
		errorLimits: &ESIErrorLimits{},
		maxRetries:  opts.MaxRetries,
		concurrency: opts.Concurrency,
		telemetry:   telemetry,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = config.GetEnv("ESI_USER_AGENT", "go-recruiter/1.0.0 contact@example.com")
	}
	if c.concurrency < 1 {
		c.concurrency = 5
	}
	if !opts.DisableCache {
		c.cacheManager = opts.CacheManager
		if c.cacheManager == nil {
			c.cacheManager = NewDefaultCacheManager()
		}
	}

	c.retryClient = opts.RetryClient
	if c.retryClient == nil {
		var limiter *rate.Limiter
		if opts.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
		}
		rc := NewDefaultRetryClient(httpClient, limiter, c.errorLimits, &c.limitsMutex)
		if opts.BackoffUnit > 0 {
			rc.backoffUnit = opts.BackoffUnit
		}
		c.retryClient = rc
	}
	return c
}

// ErrorLimits returns the last seen ESI error limit state.
func (c *Client) ErrorLimits() ESIErrorLimits {
	return c.retryClient.ErrorLimits()
}

// request describes one ESI call.
type request struct {
	operation   string
	method      string
	path        string
	query       url.Values
	body        any
	characterID int32 // zero for public endpoints
	scope       string
}

func (r request) withPage(page int) request {
	q := url.Values{}
	for k, v := range r.query {
		q[k] = slices.Clone(v)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	r.query = q
	return r
}

type rawResponse struct {
	body   []byte
	header http.Header
}

func (c *Client) do(ctx context.Context, r request) (*rawResponse, error) {
	var span trace.Span
	if c.telemetry {
		tracer := otel.Tracer("go-recruiter/evegateway")
		ctx, span = tracer.Start(ctx, "evegateway."+r.operation)
		defer span.End()

		span.SetAttributes(
			attribute.String("esi.endpoint", r.path),
			attribute.Int("esi.character_id", int(r.characterID)),
		)
	}

	raw, err := c.execute(ctx, r)
	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ESI call failed")
		} else {
			span.SetAttributes(attribute.Int("http.response_size", len(raw.body)))
			span.SetStatus(codes.Ok, "")
		}
	}
	return raw, err
}

func (c *Client) execute(ctx context.Context, r request) (*rawResponse, error) {
	method := r.method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if len(r.query) > 0 {
		req.URL.RawQuery = r.query.Encode()
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.characterID != 0 {
		if c.authorizer == nil {
			return nil, &ScopeError{CharacterID: r.characterID, Scope: r.scope, Reason: "no authorizer configured"}
		}
		if err := c.authorizer.Authorize(ctx, req, r.characterID, r.scope); err != nil {
			return nil, err
		}
	}

	cacheable := c.cacheManager != nil && method == http.MethodGet && r.characterID == 0
	cacheKey := req.URL.String()
	if cacheable {
		if entry, found, err := c.cacheManager.Get(ctx, cacheKey); err == nil && found {
			slog.DebugContext(ctx, "Using cached ESI response", "endpoint", r.path)
			return &rawResponse{body: entry.Data, header: entry.Header}, nil
		}
		if err := c.cacheManager.SetConditionalHeaders(ctx, req, cacheKey); err != nil {
			slog.WarnContext(ctx, "Failed to read ESI cache", "endpoint", r.path, "error", err)
		}
	}

	slog.DebugContext(ctx, "Requesting ESI", "method", method, "endpoint", r.path, "character_id", r.characterID)

	resp, err := c.retryClient.DoWithRetry(ctx, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to call ESI %s: %w", r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotModified && cacheable:
		if err := c.cacheManager.RefreshExpiry(ctx, cacheKey, resp.Header); err != nil {
			slog.WarnContext(ctx, "Failed to refresh ESI cache entry", "endpoint", r.path, "error", err)
		}
		if entry, found, err := c.cacheManager.GetForNotModified(ctx, cacheKey); err == nil && found {
			return &rawResponse{body: entry.Data, header: entry.Header}, nil
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: r.path}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &ScopeError{CharacterID: r.characterID, Scope: r.scope, Reason: esiErrorMessage(data)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: r.path, Body: esiErrorMessage(data)}
	}

	if cacheable {
		if err := c.cacheManager.Set(ctx, cacheKey, data, resp.Header); err != nil {
			slog.WarnContext(ctx, "Failed to store ESI response", "endpoint", r.path, "error", err)
		}
	}
	return &rawResponse{body: data, header: resp.Header}, nil
}

// esiErrorMessage extracts the "error" field ESI puts into error bodies.
func esiErrorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	if len(body) > 200 {
		return string(body[:200])
	}
	return string(body)
}

func get[T any](ctx context.Context, c *Client, r request) (*Response[T], error) {
	raw, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	var data T
	if err := json.Unmarshal(raw.body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response of %s: %w", r.path, err)
	}
	pages := 1
	if p, err := strconv.Atoi(raw.header.Get("X-Pages")); err == nil && p > 0 {
		pages = p
	}
	return &Response[T]{Data: data, Expires: ParseExpires(raw.header), Pages: pages}, nil
}

// getPaged drains every page of an X-Pages endpoint. The first page tells how many
// pages exist, the rest are fetched concurrently and concatenated in page order.
func getPaged[T any](ctx context.Context, c *Client, r request) (*Response[[]T], error) {
	first, err := get[[]T](ctx, c, r.withPage(1))
	if err != nil {
		return nil, err
	}
	if first.Pages < 2 {
		return first, nil
	}

	results := make([][]T, first.Pages)
	results[0] = first.Data
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for p := 2; p <= first.Pages; p++ {
		g.Go(func() error {
			resp, err := get[[]T](gctx, c, r.withPage(p))
			if err != nil {
				return fmt.Errorf("page %d: %w", p, err)
			}
			results[p-1] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Fetched paged ESI endpoint", "endpoint", r.path, "pages", first.Pages)
	return &Response[[]T]{Data: slices.Concat(results...), Expires: first.Expires, Pages: first.Pages}, nil
}
