package rest

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
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Config carries the remote data store connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// NetworkRetries is the number of additional attempts after a
	// transient transport failure.
	NetworkRetries int
	// BackoffStep is the base of the linearly increasing backoff between
	// network retries (attempt n waits n * BackoffStep).
	BackoffStep time.Duration
}

// Client wraps every remote read/write with credential-refresh-and-retry
// semantics and failure classification. All repositories share one client.
type Client struct {
	baseURL        string
	apiKey         string
	tokens         TokenSource
	httpc          *http.Client
	networkRetries int
	backoffStep    time.Duration
	logger         *zap.Logger
}

func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BackoffStep == 0 {
		cfg.BackoffStep = 250 * time.Millisecond
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		tokens:         tokens,
		httpc:          &http.Client{Timeout: cfg.Timeout},
		networkRetries: cfg.NetworkRetries,
		backoffStep:    cfg.BackoffStep,
		logger:         logger,
	}
}

// Get fetches path with the given query filters and decodes the response
// into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post creates a resource.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch applies a partial update. The remote store applies the whole field
// set in one statement, so a mutation is atomic from the caller's side.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Ping probes the store's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
	}

	refreshed := false
	attempt := 0
	for {
		resp, err := c.send(ctx, method, path, query, payload)
		if err != nil {
			if isTransient(err) && attempt < c.networkRetries {
				attempt++
				c.logger.Warn("transient store error, retrying",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("attempt", attempt),
					zap.Error(err))
				if werr := c.wait(ctx, attempt); werr != nil {
					return werr
				}
				continue
			}
			return NetworkError(err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			if isTransient(readErr) && attempt < c.networkRetries {
				attempt++
				if werr := c.wait(ctx, attempt); werr != nil {
					return werr
				}
				continue
			}
			return NetworkError(readErr)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			// Exactly one refresh-and-retry; a second 401 is terminal.
			if !refreshed {
				refreshed = true
				if rerr := c.tokens.Refresh(ctx); rerr == nil {
					continue
				}
			}
			return SessionExpired()
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return Classify(resp.StatusCode, respBody)
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return &APIError{Kind: KindServer, Status: resp.StatusCode,
					Message: fmt.Sprintf("failed to decode %s %s response: %v", method, path, err)}
			}
		}
		return nil
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpc.Do(req)
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	select {
	case <-time.After(time.Duration(attempt) * c.backoffStep):
		return nil
	case <-ctx.Done():
		return NetworkError(ctx.Err())
	}
}

// isTransient reports whether a transport failure is worth retrying:
// connection resets, closed connections and timeouts.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "use of closed network connection")
}
