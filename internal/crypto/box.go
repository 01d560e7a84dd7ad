package crypto

import (
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// Seal encrypts plaintext for the holder of peerPublic, authenticated
// under the X25519 agreement of (ownPrivate, peerPublic) and the given
// nonce. The returned ciphertext carries the Poly1305 tag appended; the
// wire envelope is nonce || ciphertext, assembled by the caller.
//
// Key and nonce widths are validated before any cryptographic work.
// Seal never mutates its inputs and never reuses caller-supplied nonces
// on its own: uniqueness of a caller-chosen nonce is the caller's
// obligation.
func Seal(plaintext, nonce, peerPublic, ownPrivate []byte) ([]byte, error) {
	n, pub, priv, err := checkBoxParams(nonce, peerPublic, ownPrivate)
	if err != nil {
		return nil, err
	}
	return box.Seal(nil, plaintext, n, pub, priv), nil
}

// Open verifies and decrypts a sealed box produced by the peer. Tag
// verification and decryption are one atomic operation: on mismatch it
// returns ErrDecryptionFailed and no plaintext bytes.
func Open(ciphertext, nonce, peerPublic, ownPrivate []byte) ([]byte, error) {
	n, pub, priv, err := checkBoxParams(nonce, peerPublic, ownPrivate)
	if err != nil {
		return nil, err
	}
	plaintext, ok := box.Open(nil, ciphertext, n, pub, priv)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func checkBoxParams(nonce, peerPublic, ownPrivate []byte) (*[NonceSize]byte, *[KeySize]byte, *[KeySize]byte, error) {
	if len(peerPublic) != KeySize {
		return nil, nil, nil, fmt.Errorf("%w: public key is %d bytes, want %d", ErrInvalidKeySize, len(peerPublic), KeySize)
	}
	if len(ownPrivate) != KeySize {
		return nil, nil, nil, fmt.Errorf("%w: private key is %d bytes, want %d", ErrInvalidKeySize, len(ownPrivate), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	var n [NonceSize]byte
	var pub, priv [KeySize]byte
	copy(n[:], nonce)
	copy(pub[:], peerPublic)
	copy(priv[:], ownPrivate)
	return &n, &pub, &priv, nil
}
