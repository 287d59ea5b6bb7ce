package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
)

// loginPath is the form target on the game website. A rejected login leaves
// the browser on this page; a successful one redirects elsewhere.
const loginPath = "/nl/login.asp"

// LoginHeaders returns the headers a browser sends when submitting the login
// form, layered over the session defaults.
func LoginHeaders() HeaderSet {
	return HeaderSet{
		{Name: "Accept", Value: "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp," +
			"image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9"},
		{Name: "Accept-Encoding", Value: "gzip, deflate, br"},
		{Name: "Cache-Control", Value: "max-age=0"},
		{Name: "Content-Type", Value: "application/x-www-form-urlencoded"},
	}
}

// GameClient wraps a Session with the game website's login flow.
type GameClient struct {
	session       *Session
	baseURL       string
	loginHeaders  HeaderSet
	authenticated bool
}

// NewGameClient creates a game client on top of session. The base URL is
// decoded from cfg.URLBase once, here.
func NewGameClient(cfg Config, session *Session) (*GameClient, error) {
	baseURL, err := decodeBaseURL(cfg.URLBase)
	if err != nil {
		return nil, err
	}

	return &GameClient{
		session:      session,
		baseURL:      baseURL,
		loginHeaders: LoginHeaders(),
	}, nil
}

func decodeBaseURL(encoded string) (string, error) {
	if strings.TrimSpace(encoded) == "" {
		return "", fmt.Errorf("%w: URL_BASE is not set", ErrInvalidBaseURL)
	}

	decoded, err := Decode(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}

	parsed, err := url.Parse(decoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidBaseURL, decoded)
	}

	// Paths are joined with a leading slash, so drop any trailing one here.
	return strings.TrimRight(decoded, "/"), nil
}

// BaseURL returns the decoded site root.
func (g *GameClient) BaseURL() string {
	return g.baseURL
}

// LoginURL returns the login form endpoint.
func (g *GameClient) LoginURL() string {
	return g.baseURL + loginPath
}

// Authenticated reports whether the most recent Login call succeeded.
func (g *GameClient) Authenticated() bool {
	return g.authenticated
}

// Login submits the credentials to the login form. The website answers a
// bad login by landing back on the login page, which is reported as a
// *LoginError. On success the response is returned for the caller to read
// and close, and the session cookies now carry the login.
func (g *GameClient) Login(ctx context.Context, user, password string) (*http.Response, error) {
	loginURL := g.LoginURL()
	headers := g.session.Headers().Merge(g.loginHeaders)
	payload := Form{}.Add("username", user).Add("password", password)

	resp, err := g.session.Post(ctx, loginURL, WithHeaders(headers), WithPayload(payload))
	if err != nil {
		return nil, err
	}

	if finalURL(resp) == loginURL {
		resp.Body.Close()
		g.authenticated = false
		return nil, &LoginError{Endpoint: loginURL}
	}

	g.authenticated = true
	return resp, nil
}

// Get fetches a page of the website, path being relative to the base URL.
func (g *GameClient) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.session.Get(ctx, g.baseURL+path, opts...)
}

// Close releases the underlying session.
func (g *GameClient) Close() {
	g.session.Close()
}
