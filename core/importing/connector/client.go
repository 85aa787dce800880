package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

type ClientConfig struct {
	// Timeout bounds each provider request; mandatory since providers carry no SLA.
	Timeout time.Duration

	// RateLimit is requests per second with burst RateBurst.
	RateLimit float64
	RateBurst int

	UserAgent string

	// Transport allows injecting a custom HTTP transport (for tests/stubs).
	Transport http.RoundTripper
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   30 * time.Second,
		RateLimit: 10.0,
		RateBurst: 5,
		UserAgent: "Safal-Import/1.0",
	}
}

// Client is a rate-limited HTTP client shared by all source connectors, with a
// circuit breaker so a flapping provider fails fast instead of burning the
// whole scope-timeout budget per call.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	def := DefaultClientConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = def.RateBurst
	}
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "connector",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, url, headers, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, url, headers, body, out)
}

// doJSON performs one provider call, sorting failures into the connector error
// taxonomy: credential rejections are auth errors, network trouble and
// provider overload are retryable unavailability, anything malformed is a
// protocol error.
func (c *Client) doJSON(ctx context.Context, method, url string, headers map[string]string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &importing.ConnectorError{Kind: importing.ConnectorUnavailable, Err: err}
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return &importing.ConnectorError{Kind: importing.ConnectorProtocol, Err: err}
		}
	}

	data, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return nil, &importing.ConnectorError{Kind: importing.ConnectorProtocol, Err: err}
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &importing.ConnectorError{Kind: importing.ConnectorUnavailable, Err: err}
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, &importing.ConnectorError{Kind: importing.ConnectorAuth, Err: fmt.Errorf("provider returned %s", resp.Status)}
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, &importing.ConnectorError{Kind: importing.ConnectorUnavailable, Err: fmt.Errorf("provider returned %s", resp.Status)}
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, &importing.ConnectorError{Kind: importing.ConnectorProtocol, Err: fmt.Errorf("provider returned %s", resp.Status)}
		}

		buf := new(bytes.Buffer)
		if _, err = buf.ReadFrom(resp.Body); err != nil {
			return nil, &importing.ConnectorError{Kind: importing.ConnectorUnavailable, Err: err}
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		var cErr *importing.ConnectorError
		if errors.As(err, &cErr) {
			return cErr
		}
		// breaker open / half-open overflow
		return &importing.ConnectorError{Kind: importing.ConnectorUnavailable, Err: err}
	}

	if out != nil {
		if err := json.Unmarshal(data.([]byte), out); err != nil {
			return &importing.ConnectorError{Kind: importing.ConnectorProtocol, Err: err}
		}
	}
	return nil
}
