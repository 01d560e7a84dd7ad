package threema

import (
	"encoding/hex"
	"fmt"

	"github.com/bluec0re/threema-go/internal/crypto"
)

// IDLength is the length of a Threema identity in characters.
const IDLength = 8

// A ThreemaID identifies an account: eight characters from A-Z0-9.
// Gateway identities additionally start with '*'.
type ThreemaID [IDLength]byte

// ParseID validates and converts an identity string.
func ParseID(s string) (ThreemaID, error) {
	var id ThreemaID
	if len(s) != IDLength {
		return id, fmt.Errorf("%w: %q is %d characters, want %d", ErrInvalidID, s, len(s), IDLength)
	}
	for i := 0; i < IDLength; i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '*' && i == 0: // gateway identities
		default:
			return id, fmt.Errorf("%w: %q contains %q", ErrInvalidID, s, c)
		}
		id[i] = c
	}
	return id, nil
}

func (id ThreemaID) String() string {
	return string(id[:])
}

// A MessageID is the gateway-assigned identifier of a submitted
// message: eight bytes, hex-printed.
type MessageID [8]byte

// ParseMessageID converts the 16-character hex form used by the
// gateway API.
func ParseMessageID(s string) (MessageID, error) {
	var id MessageID
	if hex.DecodedLen(len(s)) != len(id) {
		return id, fmt.Errorf("%w: %q", ErrInvalidMessageID, s)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("%w: %q", ErrInvalidMessageID, s)
	}
	return id, nil
}

func (id MessageID) String() string {
	return hex.EncodeToString(id[:])
}

// An Identity is a Threema account: its ID and long-term key pair.
type Identity struct {
	ID ThreemaID

	keys *crypto.KeyPair
}

// NewIdentity builds an identity from an ID string and a 32-byte
// private key.
func NewIdentity(id string, privateKey []byte) (*Identity, error) {
	tid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	keys, err := crypto.KeyPairFromPrivate(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: private key must be %d bytes", ErrInvalidKey, crypto.KeySize)
	}
	return &Identity{ID: tid, keys: keys}, nil
}

// GenerateIdentity creates a fresh key pair for the given ID. The ID
// itself is assigned by Threema at registration time; this only
// generates the cryptographic material.
func GenerateIdentity(id string) (*Identity, error) {
	tid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	keys, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Identity{ID: tid, keys: keys}, nil
}

// IdentityFromBackup decrypts an exported identity backup string.
func IdentityFromBackup(backup, password string) (*Identity, error) {
	idBytes, private, err := crypto.DecryptBackup(backup, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return NewIdentity(string(idBytes[:]), private[:])
}

// PublicKey returns the identity's 32-byte public key.
func (i *Identity) PublicKey() []byte {
	key := i.keys.Public
	return key[:]
}

// PrivateKey returns the identity's 32-byte private key.
func (i *Identity) PrivateKey() []byte {
	key := i.keys.Private
	return key[:]
}

// Backup exports the identity as an encrypted backup string, suitable
// for IdentityFromBackup.
func (i *Identity) Backup(password string) (string, error) {
	var id [crypto.IdentitySize]byte
	copy(id[:], i.ID[:])
	return crypto.EncryptBackup(id, i.keys.Private, password)
}
