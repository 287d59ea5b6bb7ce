package main

import (
	"context"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
)

// DefaultUserAgent is sent on every request unless headers are overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/92.0.4515.107 Safari/537.36"

// DefaultHeaders returns the header set every Session starts with.
func DefaultHeaders() HeaderSet {
	return HeaderSet{
		{Name: "User-Agent", Value: DefaultUserAgent},
	}
}

// Doer executes a single HTTP request. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session sends requests through one cookie-bearing HTTP client, waiting a
// random interval before each request to keep a human browsing cadence.
//
// A Session owns its HTTP client for its whole lifetime and must be closed
// when done. It is not safe for concurrent use; callers serialize access.
type Session struct {
	http         Doer
	headers      HeaderSet
	defaultDelay DelayRange
	random       RandomSource
	sleep        func(time.Duration)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRandomSource replaces the random source used for delays.
func WithRandomSource(r RandomSource) SessionOption {
	return func(s *Session) { s.random = r }
}

// WithSleeper replaces the function used to block before each request.
func WithSleeper(sleep func(time.Duration)) SessionOption {
	return func(s *Session) { s.sleep = sleep }
}

// WithDefaultDelay sets the delay range used by calls that don't pass WithDelay.
func WithDefaultDelay(d DelayRange) SessionOption {
	return func(s *Session) { s.defaultDelay = d }
}

// WithDefaultHeaders replaces the Session's default header set.
func WithDefaultHeaders(h HeaderSet) SessionOption {
	return func(s *Session) { s.headers = h.Clone() }
}

// NewSession wraps client in a Session.
func NewSession(client Doer, opts ...SessionOption) *Session {
	s := &Session{
		http:         client,
		headers:      DefaultHeaders(),
		defaultDelay: DefaultDelay,
		random:       globalRand{},
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Headers returns a copy of the default header set.
func (s *Session) Headers() HeaderSet {
	return s.headers.Clone()
}

// requestConfig holds the per-call settings of Get and Post.
type requestConfig struct {
	headers HeaderSet
	payload Form
	delay   DelayRange
}

// RequestOption configures a single Get or Post call.
type RequestOption func(*requestConfig)

// WithHeaders sends h instead of the Session's default headers. The defaults
// are not merged in.
func WithHeaders(h HeaderSet) RequestOption {
	return func(c *requestConfig) { c.headers = h }
}

// WithPayload sends payload as an URL-encoded form body, fields in order.
func WithPayload(payload Form) RequestOption {
	return func(c *requestConfig) { c.payload = payload }
}

// WithDelay sets the pre-request wait range in seconds. WithDelay(0, 0) sends
// the request immediately.
func WithDelay(minSeconds, maxSeconds int) RequestOption {
	return func(c *requestConfig) { c.delay = DelayRange{Min: minSeconds, Max: maxSeconds} }
}

// Get waits a random interval then issues a GET to rawURL.
// The response is returned as the transport produced it.
func (s *Session) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return s.do(ctx, http.MethodGet, rawURL, opts)
}

// Post waits a random interval then issues a POST to rawURL, sending any
// payload as form data.
func (s *Session) Post(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return s.do(ctx, http.MethodPost, rawURL, opts)
}

func (s *Session) do(ctx context.Context, method, rawURL string, opts []RequestOption) (*http.Response, error) {
	cfg := requestConfig{
		headers: s.headers,
		delay:   s.defaultDelay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	wait, err := cfg.delay.Draw(s.random)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(cfg.payload) > 0 {
		body = strings.NewReader(cfg.payload.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header = cfg.headers.toHTTP()

	s.sleep(wait)
	return s.http.Do(req)
}

// Close releases idle connections held by the underlying client.
func (s *Session) Close() {
	if c, ok := s.http.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}
