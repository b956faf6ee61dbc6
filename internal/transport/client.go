// Package transport provides the shared HTTP client used by every resolver.
// It owns retry with jittered backoff and optional response caching, so the
// resolvers only see terminal success or failure.
package transport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/open-prophetdb/ontology-matcher/pkg/constants"
	"github.com/open-prophetdb/ontology-matcher/pkg/errors"
	"github.com/open-prophetdb/ontology-matcher/pkg/logging"
)

// Cache stores raw response bodies keyed by request fingerprint. A nil cache
// disables caching entirely.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Client is a retrying JSON HTTP client.
type Client struct {
	http       *http.Client
	cache      Cache
	logger     *zerolog.Logger
	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCache installs a response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries overrides the retry attempt ceiling.
func WithRetries(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxRetries = attempts
		}
	}
}

// WithBackoff overrides the randomized wait window between attempts.
func WithBackoff(min, max time.Duration) Option {
	return func(c *Client) {
		c.waitMin, c.waitMax = min, max
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client with the default retry policy.
func New(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: constants.DefaultHTTPTimeout},
		logger:     logging.Default(),
		maxRetries: constants.MaxRetries,
		waitMin:    constants.RetryWaitMin,
		waitMax:    constants.RetryWaitMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON performs a GET with the given query and decodes the JSON response
// into out.
func (c *Client) GetJSON(ctx context.Context, service, rawURL string, query url.Values, out any) error {
	endpoint := rawURL
	if len(query) > 0 {
		endpoint = rawURL + "?" + query.Encode()
	}
	body, err := c.do(ctx, service, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}

// PostJSON performs a POST with a JSON body and decodes the JSON response
// into out.
func (c *Client) PostJSON(ctx context.Context, service, rawURL string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapParse("json", rawURL, err)
	}
	body, err := c.do(ctx, service, http.MethodPost, rawURL, encoded, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapParse("json", rawURL, err)
	}
	return nil
}

// PostForm performs a form-encoded POST and decodes the JSON response.
func (c *Client) PostForm(ctx context.Context, service, rawURL string, form url.Values, out any) error {
	body, err := c.do(ctx, service, http.MethodPost, rawURL,
		[]byte(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapParse("json", rawURL, err)
	}
	return nil
}

// do runs one request through the cache and the retry loop.
func (c *Client) do(ctx context.Context, service, method, endpoint string, payload []byte, contentType string) ([]byte, error) {
	key := cacheKey(method, endpoint, payload)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug().Str("service", service).Str("url", endpoint).Msg("Cache hit")
			return body, nil
		}
	}

	body, err := c.retry(ctx, service, endpoint, func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(key, body); err != nil {
			c.logger.Warn().Err(err).Str("url", endpoint).Msg("Failed to cache response")
		}
	}
	return body, nil
}

// retry runs the request up to maxRetries times, waiting a randomized
// interval between attempts. Network errors, 429s and 5xx responses retry;
// everything else is terminal.
func (c *Client) retry(ctx context.Context, service, endpoint string, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := build()
		if err != nil {
			return nil, errors.WrapAPI(service, 0, endpoint, "building request", err)
		}
		req.Header.Set("User-Agent", constants.UserAgent)
		req.Header.Set("Accept", "application/json")

		body, retryable, err := c.attempt(service, endpoint, req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		c.logger.Warn().
			Err(err).
			Str("service", service).
			Int("attempt", attempt).
			Int("max", c.maxRetries).
			Msg("Request failed, retrying")

		if attempt == c.maxRetries {
			break
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(service, endpoint string, req *http.Request) (body []byte, retryable bool, err error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, errors.WrapAPI(service, 0, endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errors.WrapAPI(service, resp.StatusCode, endpoint, "reading response", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, errors.NewAPIError(service, resp.StatusCode, endpoint, snippet(body))
	default:
		return nil, false, errors.NewAPIError(service, resp.StatusCode, endpoint, snippet(body))
	}
}

func (c *Client) wait(ctx context.Context) error {
	window := c.waitMax - c.waitMin
	wait := c.waitMin
	if window > 0 {
		wait += time.Duration(rand.Int63n(int64(window)))
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cacheKey(method, endpoint string, payload []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s %s\n", method, endpoint)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
