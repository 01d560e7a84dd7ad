package api

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
)

// Common gateway errors that can be checked with errors.Is.
var (
	// ErrMissingIdentity indicates no gateway identity was supplied.
	ErrMissingIdentity = errors.New("gateway identity is required")
	// ErrMissingSecret indicates no API secret was supplied.
	ErrMissingSecret = errors.New("API secret is required")
	// ErrUnauthorized indicates the identity/API secret pair was rejected.
	ErrUnauthorized = errors.New("invalid identity or API secret")
	// ErrNoCredits indicates the account has no message credits left.
	ErrNoCredits = errors.New("no message credits remaining")
	// ErrIdentityNotFound indicates the requested identity does not exist.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrMessageTooLarge indicates the sealed message exceeds the gateway limit.
	ErrMessageTooLarge = errors.New("message too large")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrInvalidResponse indicates the gateway returned a body that does
	// not match the documented response shape.
	ErrInvalidResponse = errors.New("malformed gateway response")
	// ErrUntrustedCertificate indicates the server certificate does not
	// chain to the pinned root set.
	ErrUntrustedCertificate = errors.New("server certificate not trusted by pinned roots")
)

// APIError represents an HTTP error response from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 402:
		return target == ErrNoCredits
	case 404:
		return target == ErrIdentityNotFound
	case 413:
		return target == ErrMessageTooLarge
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a connection-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports ErrUntrustedCertificate for TLS verification failures so
// callers can distinguish a pinning rejection from an outage.
func (e *NetworkError) Is(target error) bool {
	return target == ErrUntrustedCertificate && IsCertificateError(e.Err)
}

// IsCertificateError reports whether err stems from certificate chain
// verification rather than plain connectivity.
func IsCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var invalid x509.CertificateInvalidError
	return errors.As(err, &invalid)
}
