package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// TokenSource supplies the credential attached to every remote store call
// and knows how to refresh it once it expires.
type TokenSource interface {
	Token() string
	Refresh(ctx context.Context) error
}

// StaticTokenSource is a fixed credential with no refresh capability.
// Useful for service-role keys and tests.
type StaticTokenSource string

func (s StaticTokenSource) Token() string { return string(s) }

func (s StaticTokenSource) Refresh(ctx context.Context) error {
	return &APIError{Kind: KindAuth, Message: "static credential cannot be refreshed"}
}

// IdentityTokenSource exchanges a long-lived refresh token for fresh access
// tokens against the identity provider.
type IdentityTokenSource struct {
	baseURL      string
	refreshToken string
	httpc        *http.Client

	mu          sync.Mutex
	accessToken string
}

func NewIdentityTokenSource(baseURL, refreshToken string, timeout time.Duration) *IdentityTokenSource {
	return &IdentityTokenSource{
		baseURL:      baseURL,
		refreshToken: refreshToken,
		httpc:        &http.Client{Timeout: timeout},
	}
}

func (s *IdentityTokenSource) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Refresh exchanges the refresh token for a new access token. A failure
// here means the session is no longer recoverable.
func (s *IdentityTokenSource) Refresh(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": s.refreshToken,
	})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/token", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return NetworkError(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Classify(resp.StatusCode, body)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		return &APIError{Kind: KindAuth, Message: "identity provider returned no access token"}
	}

	s.mu.Lock()
	s.accessToken = token.AccessToken
	s.mu.Unlock()
	return nil
}
