// Package cruise provides HTTP clients for the cruise line booking engine:
// search, pricing, courtesy holds, guest profiles and deals.
package cruise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
	"github.com/capitalize-ai/cruise-concierge/pkg/metrics"
)

const tracerName = "github.com/capitalize-ai/cruise-concierge/internal/cruise"

// Config holds booking engine client configuration.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
}

// Client talks to the booking engine over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	tracer     trace.Tracer
	logger     *logger.Logger
}

// StatusError is returned when the booking engine answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// NewClient creates a new booking engine client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	var retries uint64
	if cfg.MaxRetries > 0 {
		retries = uint64(cfg.MaxRetries)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: retries,
		tracer:     otel.Tracer(tracerName),
		logger:     log,
	}
}

// response is the raw result of a booking engine call.
type response struct {
	body    []byte
	cookies []*http.Cookie
}

// getJSON issues an idempotent GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, service, path string, query url.Values, out any) error {
	resp, err := c.get(ctx, service, path, query, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", service, err)
	}
	return nil
}

// get issues an idempotent GET. Transport errors and 5xx answers are retried
// with exponential backoff; 4xx answers are returned immediately.
func (c *Client) get(ctx context.Context, service, path string, query url.Values, header http.Header) (*response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp *response
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		for k, vs := range header {
			req.Header[http.CanonicalHeaderKey(k)] = vs
		}

		r, err := c.do(ctx, service, req)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

// postJSON issues a POST with a JSON body. POSTs are never retried.
func (c *Client) postJSON(ctx context.Context, service, path string, body any, header http.Header, out any) (*response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.do(ctx, service, req)
	if err != nil {
		return nil, err
	}

	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", service, err)
		}
	}
	return resp, nil
}

// do sends one request, recording a span and call metrics.
func (c *Client) do(ctx context.Context, service string, req *http.Request) (*response, error) {
	ctx, span := c.tracer.Start(ctx, "cruise."+service, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		metrics.RecordExternalCall(service, "error", time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to call %s: %w", service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordExternalCall(service, http.StatusText(resp.StatusCode), time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read %s response: %w", service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Service: service, StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
		span.SetStatus(codes.Error, statusErr.Error())
		c.logger.Warn("booking engine call failed",
			zap.String("service", service),
			zap.Int("status", resp.StatusCode),
		)
		return nil, statusErr
	}

	c.logger.Debug("booking engine call completed",
		zap.String("service", service),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return &response{body: body, cookies: resp.Cookies()}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
