package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"io"
	"strings"

	"golang.org/x/crypto/salsa20"

	"github.com/bluec0re/threema-go/internal/wire"
)

// backupEncoding is RFC 4648 base32 without padding; exported backups
// are short enough that their encoding always falls on a block boundary.
var backupEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// backupBlob is the plaintext layout of an identity backup: the identity
// handle, its private key, and a truncated SHA-256 over both that
// detects a wrong passphrase after decryption.
type backupBlob struct {
	Identity [IdentitySize]byte
	Key      [KeySize]byte
	Checksum [BackupChecksumSize]byte
}

const backupBlobSize = IdentitySize + KeySize + BackupChecksumSize

// EncryptBackup serializes an identity and its private key into the
// portable backup format: a random 8-byte salt followed by the
// XSalsa20-encrypted blob (zero nonce, PBKDF2-stretched passphrase key),
// base32-encoded in dash-separated groups of four.
func EncryptBackup(identity [IdentitySize]byte, private [KeySize]byte, password string) (string, error) {
	sum := sha256.New()
	sum.Write(identity[:])
	sum.Write(private[:])
	digest := sum.Sum(nil)

	blob := backupBlob{Identity: identity, Key: private}
	copy(blob.Checksum[:], digest[:BackupChecksumSize])

	plain, err := wire.Marshal(&blob)
	if err != nil {
		return "", err
	}

	salt := make([]byte, BackupSaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return "", err
	}

	var key [KeySize]byte
	copy(key[:], DeriveBackupKey([]byte(password), salt, BackupKeyIterations))

	enc := make([]byte, len(plain))
	salsa20.XORKeyStream(enc, plain, make([]byte, NonceSize), &key)

	return groupBackup(backupEncoding.EncodeToString(append(salt, enc...))), nil
}

// DecryptBackup reverses EncryptBackup. Any structural defect, wrong
// passphrase, or checksum mismatch yields ErrInvalidBackup without
// saying which check failed.
func DecryptBackup(data, password string) (identity [IdentitySize]byte, private [KeySize]byte, err error) {
	raw, err := decodeBackupString(data)
	if err != nil {
		return identity, private, err
	}
	if len(raw) != BackupSaltSize+backupBlobSize {
		return identity, private, ErrInvalidBackup
	}

	salt, enc := raw[:BackupSaltSize], raw[BackupSaltSize:]

	var key [KeySize]byte
	copy(key[:], DeriveBackupKey([]byte(password), salt, BackupKeyIterations))

	plain := make([]byte, len(enc))
	salsa20.XORKeyStream(plain, enc, make([]byte, NonceSize), &key)

	var blob backupBlob
	if err := wire.UnmarshalStrict(plain, &blob); err != nil {
		return identity, private, ErrInvalidBackup
	}

	sum := sha256.New()
	sum.Write(blob.Identity[:])
	sum.Write(blob.Key[:])
	digest := sum.Sum(nil)

	if subtle.ConstantTimeCompare(blob.Checksum[:], digest[:BackupChecksumSize]) != 1 {
		return identity, private, ErrInvalidBackup
	}

	return blob.Identity, blob.Key, nil
}

// decodeBackupString normalizes user-typed backup strings before base32
// decoding: separators and case are forgiven, and the digits 0 and 1,
// absent from the alphabet, are read as the letters O and I.
func decodeBackupString(s string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range strings.ToUpper(s) {
		switch c {
		case '-', ' ':
			continue
		case '0':
			c = 'O'
		case '1':
			c = 'I'
		}
		b.WriteRune(c)
	}

	raw, err := backupEncoding.DecodeString(b.String())
	if err != nil {
		return nil, ErrInvalidBackup
	}
	return raw, nil
}

func groupBackup(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i += 4 {
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + 4
		if end > len(s) {
			end = len(s)
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}
