// Package estimate looks up property value estimates used to recommend a
// stateroom category.
package estimate

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
	"github.com/capitalize-ai/cruise-concierge/pkg/metrics"
)

// ErrNoAddress is returned when the address has neither street nor zip.
var ErrNoAddress = errors.New("no property address")

// Address identifies a property.
type Address struct {
	Street string
	Zip    string
}

func (a Address) key() string {
	return strings.ToLower(strings.TrimSpace(a.Street)) + "|" + strings.TrimSpace(a.Zip)
}

// Config holds estimate service configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client queries the property estimate XML web service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
	tracer     trace.Tracer
	logger     *logger.Logger
}

// NewClient creates a new estimate client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var retries uint64
	if cfg.MaxRetries > 0 {
		retries = uint64(cfg.MaxRetries)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: retries,
		tracer:     otel.Tracer("github.com/capitalize-ai/cruise-concierge/internal/estimate"),
		logger:     log,
	}
}

type searchResults struct {
	ZPID string `xml:"response>results>result>zpid"`
}

type zestimate struct {
	Amount string `xml:"response>zestimate>amount"`
}

// Estimate returns the estimated value of the property at addr. A missing or
// non-numeric amount is reported as zero.
func (c *Client) Estimate(ctx context.Context, addr Address) (float64, error) {
	if addr.key() == "|" {
		return 0, ErrNoAddress
	}

	ctx, span := c.tracer.Start(ctx, "estimate.lookup")
	defer span.End()

	zpid, err := c.propertyID(ctx, addr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.String("estimate.zpid", zpid))

	q := url.Values{}
	q.Set("zws-id", c.apiKey)
	q.Set("zpid", zpid)

	var resp zestimate
	if err := c.getXML(ctx, "zestimate", "/GetZestimate.htm", q, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(resp.Amount), 64)
	if err != nil {
		c.logger.Warn("estimate was not a number", zap.String("amount", resp.Amount))
		return 0, nil
	}
	return amount, nil
}

func (c *Client) propertyID(ctx context.Context, addr Address) (string, error) {
	q := url.Values{}
	q.Set("zws-id", c.apiKey)
	q.Set("address", addr.Street)
	q.Set("citystatezip", addr.Zip)

	var resp searchResults
	if err := c.getXML(ctx, "property_search", "/GetSearchResults.htm", q, &resp); err != nil {
		return "", err
	}
	zpid := strings.TrimSpace(resp.ZPID)
	if zpid == "" {
		return "", fmt.Errorf("no property found for %q %q", addr.Street, addr.Zip)
	}
	return zpid, nil
}

func (c *Client) getXML(ctx context.Context, service, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordExternalCall(service, "error", time.Since(start).Seconds())
			return err
		}
		defer resp.Body.Close()
		metrics.RecordExternalCall(service, http.StatusText(resp.StatusCode), time.Since(start).Seconds())

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s returned status %d", service, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%s returned status %d", service, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("failed to call %s: %w", service, err)
	}

	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", service, err)
	}
	return nil
}

