package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/config"
)

// Client talks to the managed record service. It is constructed
// explicitly and passed down; nothing in the program reaches for a
// shared instance.
type Client struct {
	cfg      config.Backend
	http     *http.Client
	observer Observer

	mu      sync.RWMutex
	session *Session
}

// NewClient creates a Client from the backend section of the config.
// A nil observer falls back to NoopObserver.
func NewClient(cfg config.Backend, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// Session returns the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// httpError carries a non-2xx response so the retry loop can tell
// client mistakes (no retry) from server trouble (retry).
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.status, e.body)
}

func (e *httpError) retryable() bool {
	return e.status >= 500
}

// do issues one logical call with bounded retry. A context that is
// cancelled or deadline-exceeded stops the retrying immediately.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	start := time.Now()

	timeout := time.Duration(c.cfg.TimeoutMs) * time.Millisecond
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	made := 0
	for i := 0; i < attempts; i++ {
		made++
		err := c.doRequest(ctx, method, path, query, body, out)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Path:      path,
				Method:    method,
				LatencyMs: time.Since(start).Milliseconds(),
				Attempts:  made,
				Success:   true,
			})
			return nil
		}
		lastErr = err

		var he *httpError
		if errors.As(err, &he) && !he.retryable() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	mapped := mapError(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Path:      path,
		Method:    method,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  made,
		Success:   false,
		ErrorCode: errorCode(mapped),
	})
	return mapped
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.cfg.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	if c.cfg.Region != "" {
		req.Header.Set("X-Service-Region", c.cfg.Region)
	}
	if s := c.Session(); s != nil {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{status: resp.StatusCode, body: string(respBody)}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// mapError folds transport and status failures into the package's
// sentinel errors.
func mapError(ctx context.Context, err error) error {
	var he *httpError
	if errors.As(err, &he) {
		switch he.status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusNotFound:
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// listResponse is the service's page envelope.
type listResponse struct {
	Items     []json.RawMessage `json:"items"`
	NextToken string            `json:"nextToken"`
}

// list fetches one page of records matching the filter. An empty
// nextToken means the last page.
func (c *Client) list(ctx context.Context, path string, filter url.Values, pageToken string) ([]json.RawMessage, string, error) {
	query := url.Values{}
	for k, vs := range filter {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	if pageToken != "" {
		query.Set("nextToken", pageToken)
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, "", err
	}
	return resp.Items, resp.NextToken, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		// Deleting what is already gone is not a failure.
		return nil
	}
	return err
}
