// Package github resolves extension metadata from GitHub repositories using
// the repository-info API and the raw-content host, with a fixed
// branch-fallback protocol.
package github

import (
	"net/http"
	"os"
	"time"
)

const (
	// DefaultAPIBase is the repository-info endpoint base.
	DefaultAPIBase = "https://api.github.com"
	// DefaultRawBase is the raw-content endpoint base.
	DefaultRawBase = "https://raw.githubusercontent.com"
	// DefaultTimeout bounds every individual request; there is no retry
	// beyond the branch-fallback sequence.
	DefaultTimeout = 20 * time.Second

	userAgent = "RegBuilder/1.0"
)

// DefaultTokenEnvNames is the ordered environment variable list consulted
// when no explicit token is configured.
var DefaultTokenEnvNames = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// Options configures a Client. Zero values fall back to the package
// defaults above.
type Options struct {
	APIBase       string
	RawBase       string
	Token         string
	TokenEnvNames []string
	Timeout       time.Duration
}

// Client talks to the GitHub endpoints for one sync pass. It is acquired
// once per pass and released with Close regardless of how many individual
// fetches failed.
type Client struct {
	http    *http.Client
	apiBase string
	rawBase string
	token   string
}

// NewClient builds a client from Options, resolving the access token with
// the documented precedence: explicit token first, then the first non-empty
// value among the ordered environment variable names.
func NewClient(opts Options) *Client {
	apiBase := opts.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	rawBase := opts.RawBase
	if rawBase == "" {
		rawBase = DefaultRawBase
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	token := opts.Token
	if token == "" {
		envNames := opts.TokenEnvNames
		if len(envNames) == 0 {
			envNames = DefaultTokenEnvNames
		}
		for _, name := range envNames {
			if v := os.Getenv(name); v != "" {
				token = v
				break
			}
		}
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiBase: apiBase,
		rawBase: rawBase,
		token:   token,
	}
}

// Close releases the client's connections. Safe to defer immediately after
// NewClient.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
