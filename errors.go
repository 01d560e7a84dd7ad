package threema

import (
	"errors"
	"fmt"

	"github.com/bluec0re/threema-go/internal/api"
	"github.com/bluec0re/threema-go/internal/crypto"
	"github.com/bluec0re/threema-go/internal/wire"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingSecret is returned when no API secret is provided.
	ErrMissingSecret = errors.New("API secret is required")

	// ErrInvalidID is returned when an identity string is not eight
	// characters from A-Z0-9.
	ErrInvalidID = errors.New("invalid Threema ID")

	// ErrInvalidMessageID is returned when a message ID is not eight
	// bytes of hex.
	ErrInvalidMessageID = errors.New("invalid message ID")

	// ErrInvalidKey is returned when a key is not exactly 32 bytes.
	ErrInvalidKey = errors.New("invalid key size")

	// ErrInvalidBackup is returned when a backup string is malformed or
	// the password is wrong.
	ErrInvalidBackup = errors.New("invalid backup or wrong password")

	// ErrDecryptionFailed is returned when a sealed message fails
	// authentication.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrDecodingFailed is returned when a decrypted payload does not
	// match any known message layout.
	ErrDecodingFailed = errors.New("message decoding failed")

	// ErrUnknownPeer is returned when no public key is available for a
	// recipient and lookup is disabled.
	ErrUnknownPeer = errors.New("no public key known for peer")

	// ErrUnauthorized is returned when the gateway rejects the
	// identity/API secret pair.
	ErrUnauthorized = errors.New("invalid identity or API secret")

	// ErrInsufficientCredits is returned when the account has no
	// message credits left.
	ErrInsufficientCredits = errors.New("insufficient message credits")

	// ErrRecipientNotFound is returned when the recipient identity does
	// not exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrMessageTooLarge is returned when the sealed message exceeds
	// the gateway size limit.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrRateLimited is returned when the gateway rate limit is
	// exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUntrustedCertificate is returned when the gateway's
	// certificate chain does not validate against the pinned roots.
	ErrUntrustedCertificate = errors.New("server certificate not trusted by pinned roots")

	// ErrInvalidCallback is returned when a gateway callback fails MAC
	// verification or lacks required fields.
	ErrInvalidCallback = errors.New("invalid gateway callback")
)

// ThreemaError is implemented by all errors originating in this SDK.
type ThreemaError interface {
	error
	ThreemaError() // marker method
}

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

// ThreemaError implements the ThreemaError interface.
func (e *APIError) ThreemaError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 402:
		return target == ErrInsufficientCredits
	case 404:
		return target == ErrRecipientNotFound
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

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports ErrUntrustedCertificate for pinning rejections so callers
// can tell them apart from plain connectivity failures.
func (e *NetworkError) Is(target error) bool {
	return target == ErrUntrustedCertificate && api.IsCertificateError(e.Err)
}

// ThreemaError implements the ThreemaError interface.
func (e *NetworkError) ThreemaError() {}

// DecryptionError describes which stage of the inbound pipeline
// rejected a message.
type DecryptionError struct {
	Stage string // "box", "padding", "decode"
	Err   error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	if target == ErrDecryptionFailed {
		return e.Stage == "box"
	}
	if target == ErrDecodingFailed {
		return e.Stage == "padding" || e.Stage == "decode"
	}
	return false
}

// ThreemaError implements the ThreemaError interface.
func (e *DecryptionError) ThreemaError() {}

// ValidationError reports invalid caller-supplied input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ThreemaError implements the ThreemaError interface.
func (e *ValidationError) ThreemaError() {}

// wrapError converts internal errors to public errors so that
// errors.Is() checks work with the package sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	if errors.Is(err, crypto.ErrDecryptionFailed) {
		return &DecryptionError{Stage: "box", Err: err}
	}
	if errors.Is(err, crypto.ErrInvalidPadding) {
		return &DecryptionError{Stage: "padding", Err: err}
	}

	var decErr *wire.DecodeError
	if errors.As(err, &decErr) {
		return &DecryptionError{Stage: "decode", Err: err}
	}

	return err
}
