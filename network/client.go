// Package network provides a pre-configured, optimized HTTP client for media server communication.
package network

import (
	"net/http"
	"time"

	"github.com/reeler-cli/reeler/auth"
	"github.com/reeler-cli/reeler/constant"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is configured with increased concurrency limits and reasonable timeouts tailored for streaming workflows.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: &authTransport{inner: newTransport()},
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// authTransport decorates every outgoing request with the application identity
// and, when present, the stored media server access token.
type authTransport struct {
	inner http.RoundTripper
}

func (a *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", constant.UserAgent)

	// Token absence is not an error; unauthenticated servers are a valid setup.
	if token, err := auth.GetToken(); err == nil && token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	}

	return a.inner.RoundTrip(clone)
}
