package aurorawatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lox/aurorawatch/internal/httputil"
	"github.com/lox/aurorawatch/internal/metrics"
)

const (
	LegacyStatusURL  = "http://aurorawatch.lancs.ac.uk/api/0.1/status.xml"
	CurrentStatusURL = "http://aurorawatch-api.lancs.ac.uk/0.2/status/current-status.xml"
	DescriptionsURL  = "http://aurorawatch-api.lancs.ac.uk/0.2/status-descriptions.xml"
)

// Client fetches AuroraWatch status documents. Every call makes exactly one
// request; nothing is cached or retried.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client using the shared HTTP client configuration.
func NewClient() *Client {
	return NewClientWith(httputil.NewClient())
}

// NewClientWith creates a client that sends requests through hc.
func NewClientWith(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// CurrentStatus fetches the 0.2.5 current_status document.
func (c *Client) CurrentStatus(ctx context.Context) (*CurrentStatus, error) {
	doc, err := c.Fetch(ctx, CurrentStatusURL, SchemaCurrent)
	if err != nil {
		return nil, err
	}
	return doc.(*CurrentStatus), nil
}

// Legacy fetches the 0.1 aurorawatch document.
func (c *Client) Legacy(ctx context.Context) (*AuroraWatch, error) {
	doc, err := c.Fetch(ctx, LegacyStatusURL, SchemaLegacy)
	if err != nil {
		return nil, err
	}
	return doc.(*AuroraWatch), nil
}

// Descriptions fetches the status_list legend.
func (c *Client) Descriptions(ctx context.Context) (*StatusList, error) {
	doc, err := c.Fetch(ctx, DescriptionsURL, SchemaDescriptions)
	if err != nil {
		return nil, err
	}
	return doc.(*StatusList), nil
}

// Fetch GETs url and decodes the body as schema. Errors are always one of
// *ConnectError, *RequestError or *DecodeError.
func (c *Client) Fetch(ctx context.Context, url string, schema Schema) (Document, error) {
	start := time.Now()
	doc, err := c.fetch(ctx, url, schema)
	record(schema, doc, err, time.Since(start))
	return doc, err
}

func (c *Client) fetch(ctx context.Context, url string, schema Schema) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("read body: %w", err)}
	}

	return Decode(body, schema)
}

// classify maps a transport error onto the connect/request split using the
// DialError marker set by the transport.
func classify(err error) error {
	var dialErr *httputil.DialError
	if errors.As(err, &dialErr) {
		return &ConnectError{Err: err}
	}
	return &RequestError{Err: err}
}

func record(schema Schema, doc Document, err error, elapsed time.Duration) {
	label := schema.String()
	metrics.FetchesTotal.WithLabelValues(label, KindOf(err).String()).Inc()
	metrics.FetchLatency.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	metrics.LastSuccess.WithLabelValues(label).SetToCurrentTime()
	if l, ok := doc.(Leveled); ok && l.Level().Known() {
		metrics.StatusSeverity.WithLabelValues(label).Set(float64(l.Level().Severity()))
	}
}
