package threema

import (
	"net/http"
	"time"

	"github.com/bluec0re/threema-go/internal/api"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	retryConfig *api.RetryConfig
	userAgent   string
	autoLookup  bool
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the gateway base URL. Mainly useful for tests.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The caller takes over
// transport configuration, including certificate pinning.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for transient gateway
// failures. Zero disables retries.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		if count <= 0 {
			c.retryConfig = nil
			return
		}
		rc := api.DefaultRetryConfig()
		rc.MaxRetries = count
		c.retryConfig = rc
	}
}

// WithUserAgent sets the User-Agent header sent to the gateway.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithoutKeyLookup disables automatic public key lookup: sending to a
// recipient whose key was not set via SetPeerPublicKey fails with
// ErrUnknownPeer.
func WithoutKeyLookup() Option {
	return func(c *clientConfig) {
		c.autoLookup = false
	}
}
