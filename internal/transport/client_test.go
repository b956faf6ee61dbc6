package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
)

func newTestClient(opts ...Option) *Client {
	opts = append([]Option{WithBackoff(time.Millisecond, 2*time.Millisecond)}, opts...)
	return New(opts...)
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := newTestClient().GetJSON(context.Background(), "test", server.URL, nil, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var out any
	err := newTestClient(WithRetries(3)).GetJSON(context.Background(), "test", server.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, errors.Is(err, errors.ErrServiceUnavailable))
}

func TestGetJSONClientErrorIsTerminal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	var out any
	err := newTestClient().GetJSON(context.Background(), "test", server.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not retry")
}

func TestPostJSONSendsBodyAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"echo":"yes"}`))
	}))
	defer server.Close()

	var out map[string]string
	err := newTestClient().PostJSON(context.Background(), "test", server.URL,
		map[string]any{"ids": []string{"DOID:7402"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "yes", out["echo"])
}

// memoryCache is a map-backed Cache for tests.
type memoryCache struct {
	entries map[string][]byte
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	body, ok := m.entries[key]
	return body, ok
}

func (m *memoryCache) Put(key string, body []byte) error {
	m.entries[key] = body
	return nil
}

func TestResponsesAreCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer server.Close()

	client := newTestClient(WithCache(&memoryCache{entries: map[string][]byte{}}))

	var out map[string]int
	query := url.Values{"q": {"DOID:7402"}}
	require.NoError(t, client.GetJSON(context.Background(), "test", server.URL, query, &out))
	require.NoError(t, client.GetJSON(context.Background(), "test", server.URL, query, &out))

	assert.Equal(t, int32(1), calls.Load(), "second call must hit the cache")
	assert.Equal(t, 1, out["n"])
}

func TestContextCancellationStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out any
	err := New(WithBackoff(time.Second, 2*time.Second)).
		GetJSON(ctx, "test", server.URL, nil, &out)
	require.Error(t, err)
}
