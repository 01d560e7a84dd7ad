// Package crypto implements the end-to-end encryption envelope of the
// messaging protocol.
//
// # Algorithm Suite
//
//   - X25519 (Curve25519) key agreement between the sender's private key
//     and the recipient's public key.
//
//   - XSalsa20-Poly1305 (NaCl box) authenticated encryption of message
//     payloads under the agreed key and a 24-byte nonce.
//
//   - PBKDF2-HMAC-SHA-256 key stretching for the passphrase protecting an
//     exported identity backup, combined with an XSalsa20 keystream over
//     the backup blob.
//
// # Security Model
//
// Seal and Open are pure functions of their inputs; the package keeps no
// state between calls and is safe for concurrent use. Open verifies the
// Poly1305 tag before releasing any plaintext and fails closed with
// [ErrDecryptionFailed] without distinguishing a corrupted box from a
// wrong key.
//
// Nonces MUST never repeat for a given key pair and direction. When the
// caller does not bring its own nonce, [GenerateNonce] draws 24 bytes
// from crypto/rand per message; callers supplying nonces carry the
// uniqueness obligation themselves.
package crypto
