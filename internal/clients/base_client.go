package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors callers match on with errors.Is. A wrapped ErrUnauthorized
// means the backend rejected the bearer token and the session must be cleared.
var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrUnavailable  = errors.New("backend: unavailable")
)

// Envelope is the uniform wrapper every backend response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// APIError carries a decoded backend failure. It is produced exactly once, at
// the HTTP boundary; call sites never re-derive success from raw fields.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

// Error implements error.
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("backend: %s (%s)", e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("backend: %s", e.Message)
}

// HTTPDoer defines the http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// BaseClient is the single HTTP client wrapper for the booking backend. It
// joins the base URL, sets JSON headers, injects the bearer token when one is
// supplied, and decodes the response envelope into typed data or an APIError.
type BaseClient struct {
	baseURL string
	client  HTTPDoer
}

// NewBaseClient builds a client rooted at baseURL.
func NewBaseClient(baseURL string, client HTTPDoer) *BaseClient {
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// NewDefaultHTTPClient returns an *http.Client with the configured timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (c *BaseClient) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Call executes one backend request. A non-empty token is attached as a bearer
// credential. When out is non-nil the envelope's data field is decoded into it.
func (c *BaseClient) Call(ctx context.Context, method, path, token string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, envelopeMessage(body, "token rejected"))
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, envelopeMessage(body, "access denied"))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("backend: decode envelope: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Errors: env.Errors}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("backend: decode data: %w", err)
		}
	}
	return nil
}

func envelopeMessage(body []byte, fallback string) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fallback
}
