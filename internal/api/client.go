package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production gateway endpoint.
const DefaultBaseURL = "https://msgapi.threema.ch"

const defaultUserAgent = "threema-go"

// maxErrorBody bounds how much of an error response body is read into
// the returned APIError.
const maxErrorBody = 4 << 10

// Client is the HTTP gateway client. It authenticates every request
// with the gateway identity and API secret and validates TLS chains
// against the pinned root set.
type Client struct {
	baseURL    string
	identity   string
	secret     string
	userAgent  string
	httpClient *http.Client
	retry      *RetryConfig
}

// Option configures the gateway client.
type Option func(*Client)

// WithBaseURL overrides the gateway endpoint. Mainly useful for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetryConfig replaces the default retry policy. Passing nil
// disables retries entirely.
func WithRetryConfig(rc *RetryConfig) Option {
	return func(c *Client) {
		c.retry = rc
	}
}

// New creates a gateway client for the given identity and API secret.
// The underlying transport trusts only the compiled-in roots.
func New(identity, secret string, opts ...Option) (*Client, error) {
	if identity == "" {
		return nil, ErrMissingIdentity
	}
	if secret == "" {
		return nil, ErrMissingSecret
	}

	transport, err := DefaultTransport()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		identity:  identity,
		secret:    secret,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		retry: DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetHTTPClient replaces the underlying HTTP client. The caller takes
// over transport configuration, including certificate pinning.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// get issues a GET for path with the given query values (in addition
// to the client credentials) and returns the response body as a string.
func (c *Client) get(ctx context.Context, path string, query url.Values) (string, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("from", c.identity)
	query.Set("secret", c.secret)

	return c.do(ctx, http.MethodGet, path+"?"+query.Encode(), "")
}

// postForm issues a form-encoded POST for path. The client credentials
// are merged into the form.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (string, error) {
	form.Set("from", c.identity)
	form.Set("secret", c.secret)

	return c.do(ctx, http.MethodPost, path, form.Encode())
}

func (c *Client) do(ctx context.Context, method, pathAndQuery, body string) (string, error) {
	reqURL := c.baseURL + pathAndQuery

	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, reqURL, strings.NewReader(body))
		if err != nil {
			return "", &NetworkError{Err: err, URL: reqURL, Attempt: attempt}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/plain")
		if method == http.MethodPost {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			nerr := &NetworkError{Err: err, URL: reqURL, Attempt: attempt}
			// A rejected chain will be rejected again; never retry it.
			if IsCertificateError(err) {
				return "", nerr
			}
			lastErr = nerr
			if c.retry == nil || attempt >= c.retry.MaxRetries {
				return "", lastErr
			}
			if err := c.retry.Sleep(ctx, c.retry.Backoff(attempt, 0)); err != nil {
				return "", &NetworkError{Err: err, URL: reqURL, Attempt: attempt}
			}
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := newAPIError(resp)
			hint := retryAfterHint(resp)
			resp.Body.Close()
			if c.retry != nil && c.retry.Retryable(attempt, resp.StatusCode) {
				lastErr = apiErr
				if err := c.retry.Sleep(ctx, c.retry.Backoff(attempt, hint)); err != nil {
					return "", &NetworkError{Err: err, URL: reqURL, Attempt: attempt}
				}
				continue
			}
			return "", apiErr
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", &NetworkError{Err: err, URL: reqURL, Attempt: attempt}
		}
		return strings.TrimSpace(string(data)), nil
	}
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
