// Package gateway is the storefront's typed client for the remote
// commerce REST API. All response decoding and shape validation happens
// here, so malformed backend payloads fail loudly at one boundary instead
// of leaking into rendering.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"storefront/internal/domain"
)

// Client wraps the backend base URL with an HTTP client and a circuit
// breaker shared by all endpoint groups.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker[*httpResult]
	pricesInCents bool
	logger        *log.Logger
}

// New builds a Client. pricesInCents states the backend's wire currency
// unit; prices are normalized to integer cents on the way in.
func New(baseURL string, timeout time.Duration, pricesInCents bool, logger *log.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[*httpResult](gobreaker.Settings{
		Name:    "backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		breaker:       breaker,
		pricesInCents: pricesInCents,
		logger:        logger,
	}
}

// BackendError is a non-2xx response from the backend. Message carries
// the backend's own error text when the response included one.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

type httpResult struct {
	status int
	body   []byte
}

// do performs one request through the circuit breaker. Transport errors
// and 5xx responses count against the breaker; 4xx responses do not, they
// are the backend answering.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.breaker.Execute(func() (*httpResult, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &BackendError{Status: resp.StatusCode, Message: errorMessage(raw)}
		}
		return &httpResult{status: resp.StatusCode, body: raw}, nil
	})
	if err != nil {
		var backendErr *BackendError
		if errors.As(err, &backendErr) {
			return backendErr
		}
		c.logger.Printf("%s %s: %v", method, path, err)
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	if res.status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if res.status >= http.StatusBadRequest {
		return &BackendError{Status: res.status, Message: errorMessage(res.body)}
	}
	if out != nil {
		if err := json.Unmarshal(res.body, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}

// errorMessage pulls the {message} envelope out of an error body when the
// backend sent one.
func errorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// unwrapData unnests the historical {data: ...} envelope some endpoints
// use. Payloads without it pass through untouched.
func unwrapData(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return raw
}

// toCents converts a wire price to integer cents according to the
// configured wire unit. Whole-unit prices are rounded to the nearest
// cent.
func (c *Client) toCents(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if c.pricesInCents {
		cents, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("price %q is not integer cents: %w", n, err)
		}
		return cents, nil
	}
	units, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", n, err)
	}
	return int64(math.Round(units * 100)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
