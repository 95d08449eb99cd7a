package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// countingTokenSource rotates to a fresh token on every refresh.
type countingTokenSource struct {
	token      atomic.Value
	refreshes  atomic.Int32
	refreshErr error
}

func newCountingTokenSource(initial string) *countingTokenSource {
	s := &countingTokenSource{}
	s.token.Store(initial)
	return s
}

func (s *countingTokenSource) Token() string {
	return s.token.Load().(string)
}

func (s *countingTokenSource) Refresh(ctx context.Context) error {
	s.refreshes.Add(1)
	if s.refreshErr != nil {
		return s.refreshErr
	}
	s.token.Store("fresh-token")
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource, retries int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		BaseURL:        srv.URL,
		APIKey:         "anon-key",
		Timeout:        2 * time.Second,
		NetworkRetries: retries,
		BackoffStep:    time.Millisecond,
	}, tokens, zap.NewNop())
	return c, srv
}

func TestGetDecodesResponse(t *testing.T) {
	var gotAuth, gotKey string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		w.Write([]byte(`{"id":"bkg-1"}`))
	})
	c, _ := newTestClient(t, handler, newCountingTokenSource("tok"), 0)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Get(context.Background(), "/bookings/bkg-1", nil, &out))
	assert.Equal(t, "bkg-1", out.ID)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "anon-key", gotKey)
}

func TestExpiredTokenRefreshedAndRetriedOnce(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"jwt expired"}`))
			return
		}
		w.Write([]byte(`{"id":"bkg-1"}`))
	})
	tokens := newCountingTokenSource("stale-token")
	c, _ := newTestClient(t, handler, tokens, 0)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Get(context.Background(), "/bookings/bkg-1", nil, &out))
	assert.Equal(t, "bkg-1", out.ID)
	assert.Equal(t, int32(1), tokens.refreshes.Load())
	assert.Equal(t, int32(2), calls.Load(), "original request replayed once")
}

func TestSecondUnauthorizedIsTerminal(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"jwt expired"}`))
	})
	tokens := newCountingTokenSource("stale-token")
	c, _ := newTestClient(t, handler, tokens, 0)

	err := c.Get(context.Background(), "/bookings", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "session expired, please sign in again", apiErr.Message)
	assert.Equal(t, int32(1), tokens.refreshes.Load(), "never refreshes twice for one request")
	assert.Equal(t, int32(2), calls.Load())
}

func TestRefreshFailureIsTerminal(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	tokens := newCountingTokenSource("stale-token")
	tokens.refreshErr = &APIError{Kind: KindAuth, Message: "refresh token revoked"}
	c, _ := newTestClient(t, handler, tokens, 0)

	err := c.Get(context.Background(), "/bookings", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, int32(1), calls.Load(), "no retry when the refresh itself fails")
}

func TestTransientFailureRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Drop the connection mid-response.
			panic(http.ErrAbortHandler)
		}
		w.Write([]byte(`{"id":"bkg-1"}`))
	})
	c, _ := newTestClient(t, handler, newCountingTokenSource("tok"), 2)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Get(context.Background(), "/bookings/bkg-1", nil, &out))
	assert.Equal(t, "bkg-1", out.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		panic(http.ErrAbortHandler)
	})
	c, _ := newTestClient(t, handler, newCountingTokenSource("tok"), 2)

	err := c.Get(context.Background(), "/bookings", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
}

func TestNonTransientStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"violates foreign key constraint"}`))
	})
	c, _ := newTestClient(t, handler, newCountingTokenSource("tok"), 3)

	err := c.Patch(context.Background(), "/bookings/bkg-1", map[string]any{"status": "cancelled"}, nil)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ConflictForeignKey, apiErr.Conflict)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses never consume the retry budget")
}

func TestPatchSendsBody(t *testing.T) {
	var gotMethod, gotContentType string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":"bkg-1","status":"cancelled"}`))
	})
	c, _ := newTestClient(t, handler, newCountingTokenSource("tok"), 0)

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, c.Patch(context.Background(), "/bookings/bkg-1", map[string]any{"status": "cancelled"}, &out))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "cancelled", out.Status)
}

func TestQueryEncoding(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	c, _ := newTestClient(t, handler, newCountingTokenSource("tok"), 0)

	query := map[string][]string{"customer_id": {"cust-1"}}
	var out []struct{}
	require.NoError(t, c.Get(context.Background(), "/bookings", query, &out))
	assert.Equal(t, "customer_id=cust-1", gotQuery)
}
