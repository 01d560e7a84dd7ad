package crypto

import (
	"crypto/rand"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
)

// randReader is the random source used for key and nonce generation.
// It defaults to crypto/rand and can be overridden for tests.
var randReader io.Reader = rand.Reader

// KeyPair holds a Curve25519 key pair. The public key is always the
// base-point multiple of the private key; construct pairs through
// GenerateKeyPair or KeyPairFromPrivate, never field by field.
type KeyPair struct {
	Public  [KeySize]byte
	Private [KeySize]byte
}

// GenerateKeyPair creates a new Curve25519 key pair from the package's
// random source.
func GenerateKeyPair() (*KeyPair, error) {
	var priv x25519.Key
	if _, err := io.ReadFull(randReader, priv[:]); err != nil {
		return nil, err
	}
	return keyPairFrom(priv), nil
}

// KeyPairFromPrivate derives the key pair belonging to a raw 32-byte
// private key.
func KeyPairFromPrivate(private []byte) (*KeyPair, error) {
	if len(private) != KeySize {
		return nil, ErrInvalidKeySize
	}
	var priv x25519.Key
	copy(priv[:], private)
	return keyPairFrom(priv), nil
}

func keyPairFrom(priv x25519.Key) *KeyPair {
	var pub x25519.Key
	x25519.KeyGen(&pub, &priv)

	kp := &KeyPair{}
	copy(kp.Private[:], priv[:])
	copy(kp.Public[:], pub[:])
	return kp
}

// GenerateNonce draws a fresh 24-byte nonce from the package's random
// source. Collisions for a given key pair are birthday-bounded and
// negligible at protocol scale.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}
