package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveBackupKey stretches a backup passphrase into a 32-byte key using
// PBKDF2-HMAC-SHA-256. The function is deterministic: identical inputs
// always produce the same key.
func DeriveBackupKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}
