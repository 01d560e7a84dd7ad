// Package api provides the HTTP client for the message gateway. It
// handles authentication parameters, the gateway's text/plain response
// conventions, and automatic retry with exponential backoff for
// transient failures.
//
// # Certificate Pinning
//
// Every connection validates the server's certificate chain against a
// compiled-in root bundle instead of the operating system trust store;
// see [PinnedRoots] and [NewPinnedTransport]. A chain that does not
// terminate in the pinned roots fails with [ErrUntrustedCertificate]
// before any request bytes are sent, even if the system store would
// have accepted it.
//
// # Error Handling
//
// Gateway rejections are surfaced as [*APIError] values that match the
// package sentinels via errors.Is:
//
//   - [ErrUnauthorized]: identity/secret pair rejected (401).
//   - [ErrNoCredits]: no message credits remaining (402).
//   - [ErrIdentityNotFound]: no such identity or key (404).
//   - [ErrMessageTooLarge]: sealed message exceeds the gateway limit (413).
//   - [ErrRateLimited]: rate limit exceeded (429).
//
// The package never retries 4xx responses; retry policy beyond
// transient 5xx handling is an application concern.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may
// call methods on a single Client simultaneously.
package api
