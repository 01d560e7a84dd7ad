package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when a nonce is not exactly
	// NonceSize bytes.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrDecryptionFailed is returned when the authentication tag of a
	// box does not verify. It deliberately does not say whether the box
	// was corrupted or the key was wrong.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidBackup is returned when an identity backup cannot be
	// decoded or the passphrase does not match.
	ErrInvalidBackup = errors.New("invalid backup or password")

	// ErrInvalidPadding is returned when a decrypted payload carries a
	// malformed padding trailer.
	ErrInvalidPadding = errors.New("invalid message padding")
)
