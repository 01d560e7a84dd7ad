package crypto

const (
	// KeySize is the size of Curve25519 public and private keys in bytes.
	KeySize = 32
	// NonceSize is the size of an XSalsa20-Poly1305 nonce in bytes.
	NonceSize = 24
	// TagSize is the size of the Poly1305 authentication tag appended to
	// every sealed box.
	TagSize = 16

	// BackupSaltSize is the size of the salt prefixing an encrypted
	// identity backup.
	BackupSaltSize = 8
	// BackupKeyIterations is the PBKDF2 iteration count for the backup
	// passphrase. Deliberately slow; not a general-purpose hash.
	BackupKeyIterations = 100000
	// BackupChecksumSize is the number of leading SHA-256 bytes stored in
	// the backup blob to detect a wrong passphrase.
	BackupChecksumSize = 2

	// IdentitySize is the length of an identity handle in bytes.
	IdentitySize = 8

	// maxPadding is the upper bound for the random message padding drawn
	// by Pad.
	maxPadding = 32
)
