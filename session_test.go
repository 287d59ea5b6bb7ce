package main

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what fakeDoer saw for one call.
type recordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// fakeDoer records requests and answers each with a response whose final URL
// is finalURL (or the request URL when empty).
type fakeDoer struct {
	t        *testing.T
	finalURL string
	status   int
	body     string
	err      error
	requests []recordedRequest
	onDo     func()
	closed   int
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.t.Helper()
	if f.onDo != nil {
		f.onDo()
	}

	rec := recordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header,
	}
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		require.NoError(f.t, err)
		rec.Body = string(b)
	}
	f.requests = append(f.requests, rec)

	if f.err != nil {
		return nil, f.err
	}

	landed := req
	if f.finalURL != "" {
		u, err := url.Parse(f.finalURL)
		require.NoError(f.t, err)
		landed = &http.Request{Method: http.MethodGet, URL: u}
	}

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    landed,
	}, nil
}

func (f *fakeDoer) CloseIdleConnections() {
	f.closed++
}

// fixedRandom returns preset draws and counts calls.
type fixedRandom struct {
	intN      int
	fraction  float64
	intNArgs  []int
	fracCalls int
}

func (r *fixedRandom) IntN(n int) int {
	r.intNArgs = append(r.intNArgs, n)
	return r.intN
}

func (r *fixedRandom) Float64() float64 {
	r.fracCalls++
	return r.fraction
}

// sleepRecorder records requested sleeps without blocking.
type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.calls = append(s.calls, d)
}

func newTestSession(t *testing.T, doer *fakeDoer, random RandomSource) (*Session, *sleepRecorder) {
	t.Helper()
	sleeper := &sleepRecorder{}
	return NewSession(doer, WithRandomSource(random), WithSleeper(sleeper.sleep)), sleeper
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(&fakeDoer{t: t})

	assert.Equal(t, HeaderSet{{Name: "User-Agent", Value: DefaultUserAgent}}, s.Headers())
	assert.Equal(t, DelayRange{Min: 10, Max: 45}, s.defaultDelay)
}

func TestSessionGet(t *testing.T) {
	const listings = "https://www.my_website.com.au/listings"

	t.Run("default arguments", func(t *testing.T) {
		doer := &fakeDoer{t: t, body: "ok"}
		random := &fixedRandom{intN: 2, fraction: 0.3456}
		s, sleeper := newTestSession(t, doer, random)

		resp, err := s.Get(context.Background(), listings)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Len(t, doer.requests, 1)
		req := doer.requests[0]
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, listings, req.URL)
		assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
		assert.Equal(t, []string{"user-agent"}, req.Header[http.HeaderOrderKey])
		assert.Empty(t, req.Body)

		// min 10 + IntN(36) = 12
		assert.Equal(t, []int{36}, random.intNArgs)
		assert.Equal(t, 1, random.fracCalls)
		require.Len(t, sleeper.calls, 1)
		assert.InDelta(t, 12.3456, sleeper.calls[0].Seconds(), 1e-6)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
	})

	t.Run("all arguments", func(t *testing.T) {
		doer := &fakeDoer{t: t}
		random := &fixedRandom{intN: 43, fraction: 0.7291423}
		s, sleeper := newTestSession(t, doer, random)

		resp, err := s.Get(context.Background(), listings,
			WithHeaders(HeaderSet{{Name: "Content", Value: "DERP"}}),
			WithDelay(50, 100),
		)
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, doer.requests, 1)
		req := doer.requests[0]
		assert.Equal(t, "DERP", req.Header.Get("Content"))
		assert.Empty(t, req.Header.Get("User-Agent"), "explicit headers replace the defaults")

		assert.Equal(t, []int{51}, random.intNArgs)
		require.Len(t, sleeper.calls, 1)
		assert.InDelta(t, 93.7291423, sleeper.calls[0].Seconds(), 1e-6)
	})

	t.Run("zero delay", func(t *testing.T) {
		doer := &fakeDoer{t: t}
		random := &fixedRandom{intN: 7, fraction: 0.5}
		s, sleeper := newTestSession(t, doer, random)

		resp, err := s.Get(context.Background(), listings, WithDelay(0, 0))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, []time.Duration{0}, sleeper.calls)
		assert.Empty(t, random.intNArgs)
		assert.Zero(t, random.fracCalls)
	})
}

func TestSessionPost(t *testing.T) {
	const login = "https://www.my_website.com.au/login"

	t.Run("default arguments", func(t *testing.T) {
		doer := &fakeDoer{t: t}
		random := &fixedRandom{intN: 2, fraction: 0.3456}
		s, sleeper := newTestSession(t, doer, random)

		resp, err := s.Post(context.Background(), login)
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, doer.requests, 1)
		req := doer.requests[0]
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, login, req.URL)
		assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
		assert.Empty(t, req.Body)
		require.Len(t, sleeper.calls, 1)
		assert.InDelta(t, 12.3456, sleeper.calls[0].Seconds(), 1e-6)
	})

	t.Run("all arguments", func(t *testing.T) {
		doer := &fakeDoer{t: t}
		random := &fixedRandom{intN: 43, fraction: 0.7291423}
		s, sleeper := newTestSession(t, doer, random)

		resp, err := s.Post(context.Background(), login,
			WithHeaders(HeaderSet{{Name: "Content", Value: "DERP"}}),
			WithPayload(Form{}.Add("user", "bill-nye").Add("password", "sc13nc3Guy")),
			WithDelay(50, 100),
		)
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, doer.requests, 1)
		req := doer.requests[0]
		assert.Equal(t, "DERP", req.Header.Get("Content"))
		assert.Empty(t, req.Header.Get("User-Agent"))

		assert.Equal(t, "user=bill-nye&password=sc13nc3Guy", req.Body)

		require.Len(t, sleeper.calls, 1)
		assert.InDelta(t, 93.7291423, sleeper.calls[0].Seconds(), 1e-6)
	})

	t.Run("zero delay", func(t *testing.T) {
		doer := &fakeDoer{t: t}
		s, sleeper := newTestSession(t, doer, &fixedRandom{})

		resp, err := s.Post(context.Background(), login, WithDelay(0, 0))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, []time.Duration{0}, sleeper.calls)
	})
}

func TestSessionSleepsBeforeRequest(t *testing.T) {
	var events []string
	doer := &fakeDoer{t: t, onDo: func() { events = append(events, "request") }}
	s := NewSession(doer,
		WithRandomSource(&fixedRandom{intN: 0, fraction: 0.25}),
		WithSleeper(func(time.Duration) { events = append(events, "sleep") }),
	)

	resp, err := s.Get(context.Background(), "https://example.com/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"sleep", "request"}, events)
}

func TestSessionTransportErrorPassesThrough(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	doer := &fakeDoer{t: t, err: transportErr}
	s, _ := newTestSession(t, doer, &fixedRandom{})

	resp, err := s.Get(context.Background(), "https://example.com/", WithDelay(0, 0))
	assert.Nil(t, resp)
	assert.Same(t, transportErr, err)
}

func TestSessionInvalidDelay(t *testing.T) {
	doer := &fakeDoer{t: t}
	s, sleeper := newTestSession(t, doer, &fixedRandom{})

	_, err := s.Get(context.Background(), "https://example.com/", WithDelay(20, 5))
	require.ErrorIs(t, err, ErrInvalidDelayRange)
	assert.Empty(t, sleeper.calls)
	assert.Empty(t, doer.requests)
}

func TestSessionDefaultDelayOption(t *testing.T) {
	doer := &fakeDoer{t: t}
	sleeper := &sleepRecorder{}
	s := NewSession(doer, WithDefaultDelay(DelayRange{}), WithSleeper(sleeper.sleep))

	resp, err := s.Get(context.Background(), "https://example.com/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []time.Duration{0}, sleeper.calls)
}

func TestSessionClose(t *testing.T) {
	doer := &fakeDoer{t: t}
	s := NewSession(doer)

	s.Close()
	s.Close()
	assert.Equal(t, 2, doer.closed)
}

func TestSessionWithDefaultHeaders(t *testing.T) {
	doer := &fakeDoer{t: t}
	custom := HeaderSet{{Name: "User-Agent", Value: "custom"}, {Name: "Accept-Language", Value: "nl-NL"}}
	s := NewSession(doer, WithDefaultHeaders(custom), WithDefaultDelay(DelayRange{}), WithSleeper(noSleep))
	custom[0].Value = "mutated"

	resp, err := s.Get(context.Background(), "https://example.com/")
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "custom", doer.requests[0].Header.Get("User-Agent"))
	assert.Equal(t, "nl-NL", doer.requests[0].Header.Get("Accept-Language"))
}
