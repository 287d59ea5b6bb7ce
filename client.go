package main

import (
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// DefaultTLSProfile is the Chrome TLS fingerprint new HTTP clients present.
var DefaultTLSProfile = profiles.Chrome_124

// NewHTTPClient creates the cookie-keeping HTTP client a Session runs on.
// Redirects are followed so the final response URL is the page the browser
// would land on.
func NewHTTPClient(logger tls_client.Logger, proxyURL string, timeoutSeconds int) (tls_client.HttpClient, error) {
	return NewHTTPClientWithProfile(logger, proxyURL, timeoutSeconds, DefaultTLSProfile)
}

func NewHTTPClientWithProfile(logger tls_client.Logger, proxyURL string, timeoutSeconds int, profile profiles.ClientProfile) (tls_client.HttpClient, error) {
	if logger == nil {
		logger = tls_client.NewNoopLogger()
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	jar := tls_client.NewCookieJar()
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profile),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(jar),
	}

	if proxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(proxyURL))
	}

	return tls_client.NewHttpClient(logger, options...)
}
