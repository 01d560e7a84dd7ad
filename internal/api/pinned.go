package api

import (
	"crypto/tls"
	"crypto/x509"
	_ "embed"
	"errors"
	"net/http"
	"sync"
)

// pinnedRootsPEM is the compiled-in root bundle the gateway's server
// certificate must chain to. It replaces the operating system trust
// store entirely: the gateway is a single known endpoint, so there is
// no reason to trust arbitrary CAs.
//
//go:embed ca.pem
var pinnedRootsPEM []byte

var (
	pinnedOnce sync.Once
	pinnedPool *x509.CertPool
	pinnedErr  error
)

// PinnedRoots returns the process-wide pinned root set, parsing the
// embedded bundle exactly once. The pool must be treated as read-only.
func PinnedRoots() (*x509.CertPool, error) {
	pinnedOnce.Do(func() {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pinnedRootsPEM) {
			pinnedErr = errors.New("api: embedded root bundle contains no certificates")
			return
		}
		pinnedPool = pool
	})
	return pinnedPool, pinnedErr
}

// NewPinnedTransport builds an HTTP transport whose TLS handshakes
// validate server chains exclusively against pool. The system trust
// store is never consulted.
func NewPinnedTransport(pool *x509.CertPool) *http.Transport {
	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: true,
		TLSClientConfig: &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		},
	}
}

// DefaultTransport returns a transport pinned to the compiled-in roots.
func DefaultTransport() (*http.Transport, error) {
	pool, err := PinnedRoots()
	if err != nil {
		return nil, err
	}
	return NewPinnedTransport(pool), nil
}
