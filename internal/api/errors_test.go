package api

import (
	"crypto/x509"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &APIError{StatusCode: 413, Message: "message too long"}
	if got := err.Error(); got != "gateway error 413: message too long" {
		t.Errorf("Error() = %q", got)
	}

	bare := &APIError{StatusCode: 500}
	if got := bare.Error(); got != "gateway error 500" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAPIError_SentinelMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   error
	}{
		{401, ErrUnauthorized},
		{402, ErrNoCredits},
		{404, ErrIdentityNotFound},
		{413, ErrMessageTooLarge},
		{429, ErrRateLimited},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status}
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: errors.Is(err, %v) = false", tt.status, tt.want)
		}
	}

	// Wrapped errors still match.
	wrapped := fmt.Errorf("sending failed: %w", &APIError{StatusCode: 402})
	if !errors.Is(wrapped, ErrNoCredits) {
		t.Error("wrapped 402 should match ErrNoCredits")
	}

	if errors.Is(&APIError{StatusCode: 500}, ErrUnauthorized) {
		t.Error("500 should not match ErrUnauthorized")
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection refused")
	err := &NetworkError{Err: inner, URL: "https://msgapi.threema.ch/credits"}

	if !errors.Is(err, inner) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if errors.Is(err, ErrUntrustedCertificate) {
		t.Error("plain connection failure should not match ErrUntrustedCertificate")
	}
}

func TestNetworkError_CertificateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"unknown authority", x509.UnknownAuthorityError{}},
		{"hostname mismatch", x509.HostnameError{Certificate: &x509.Certificate{}, Host: "msgapi.threema.ch"}},
		{"invalid certificate", x509.CertificateInvalidError{Cert: &x509.Certificate{}, Reason: x509.Expired}},
		{"wrapped", fmt.Errorf("handshake: %w", x509.UnknownAuthorityError{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nerr := &NetworkError{Err: tt.err, URL: "https://msgapi.threema.ch/credits"}
			if !errors.Is(nerr, ErrUntrustedCertificate) {
				t.Errorf("errors.Is(%v, ErrUntrustedCertificate) = false", tt.err)
			}
		})
	}
}
