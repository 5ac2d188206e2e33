package plato

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultMaxRetries is the number of extra attempts made after the
	// first request fails at the transport level.
	DefaultMaxRetries = 3
	// DefaultTimeout bounds each individual request attempt.
	DefaultTimeout = 10 * time.Second
	// defaultRetryInterval seeds the exponential backoff between attempts.
	defaultRetryInterval = 500 * time.Millisecond
)

// Option configures a Client.
type Option func(*Client)

// WithMaxRetries sets the retry budget for transport-level failures.
// Negative values are treated as zero (a single attempt).
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client. Useful for custom
// transports, proxies, or counting round-trippers in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryInterval sets the initial backoff interval between retry
// attempts. The interval grows exponentially from there.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// WithLogger attaches a zerolog logger. The client logs retries and
// request outcomes at debug level; the default logger discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithTokenSource attaches an OAuth2 token source. Each request carries
// the token as an Authorization bearer header. Token caching and refresh
// are the token source's concern.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithClientCredentials configures bearer auth via the OAuth2 client
// credentials flow against the given token endpoint. Tokens are cached
// and refreshed transparently when they expire.
func WithClientCredentials(tokenURL, clientID, clientSecret string) Option {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return func(c *Client) {
		c.tokens = cfg.TokenSource(context.Background())
	}
}
