package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func testKeyPairs(t *testing.T) (alice, bob *KeyPair) {
	t.Helper()
	alice, err := GenerateKeyPair()
	require.NoError(t, err)
	bob, err = GenerateKeyPair()
	require.NoError(t, err)
	return alice, bob
}

func TestSealOpenCrossPairing(t *testing.T) {
	alice, bob := testKeyPairs(t)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("hello")},
		{"binary", []byte{0x00, 0xff, 0x80, 0x7f}},
		{"large", bytes.Repeat([]byte{0xab}, 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nonce, err := GenerateNonce()
			require.NoError(t, err)

			sealed, err := Seal(tt.plaintext, nonce, bob.Public[:], alice.Private[:])
			require.NoError(t, err)
			require.Len(t, sealed, len(tt.plaintext)+TagSize)

			// The recipient opens with the mirrored key pairing.
			opened, err := Open(sealed, nonce, alice.Public[:], bob.Private[:])
			require.NoError(t, err)
			if len(tt.plaintext) == 0 {
				assert.Empty(t, opened)
			} else {
				assert.Equal(t, tt.plaintext, opened)
			}
		})
	}
}

func TestSealDeterministic(t *testing.T) {
	alice, bob := testKeyPairs(t)
	nonce := make([]byte, NonceSize)

	a, err := Seal([]byte("hello"), nonce, bob.Public[:], alice.Private[:])
	require.NoError(t, err)
	b, err := Seal([]byte("hello"), nonce, bob.Public[:], alice.Private[:])
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestSealKnownVector pins the envelope to the reference NaCl
// crypto_box vector (the tests/box.c keys, nonce and message from the
// NaCl distribution). A construction that deviates in the key
// agreement, the subkey derivation or the authenticator layout cannot
// reproduce these bytes.
func TestSealKnownVector(t *testing.T) {
	alicePriv := mustHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	alicePub := mustHex(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a")
	bobPriv := mustHex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")
	bobPub := mustHex(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f")
	nonce := mustHex(t, "69696ee955b62b73cd62bda875fc73d68219e0036b7a0b37")

	plaintext := mustHex(t,
		"be075fc53c81f2d5cf141316ebeb0c7b5228c52a4c62cbd44b66849b64244ffc"+
			"e5ecbaaf33bd751a1ac728d45e6c61296cdc3c01233561f41db66cce314adb31"+
			"0e3be8250c46f06dceea3a7fa1348057e2f6556ad6b1318a024a838f21af1fde"+
			"048977eb48f59ffd4924ca1c60902e52f0a089bc76897040e082f93776384864"+
			"5e0705")
	want := mustHex(t,
		"f3ffc7703f9400e52a7dfb4b3d3305d98e993b9f48681273c29650ba32fc76ce"+
			"48332ea7164d96a4476fb8c531a1186ac0dfc17c98dce87b4da7f011ec48c972"+
			"71d2c20f9b928fe2270d6fb863d51738b48eeee314a7cc8ab932164548e526ae"+
			"90224368517acfeabd6bb3732bc0e9da99832b61ca01b6de56244a9e88d5f9b3"+
			"7973f622a43d14a6599b1f654cb45a74e355a5")

	sealed, err := Seal(plaintext, nonce, bobPub, alicePriv)
	require.NoError(t, err)
	assert.Equal(t, want, sealed)

	opened, err := Open(want, nonce, alicePub, bobPriv)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSealMatchesPrecomputedSecretbox(t *testing.T) {
	// The envelope must be the NaCl box construction exactly:
	// XSalsa20-Poly1305 under the precomputed X25519 shared key.
	alice, bob := testKeyPairs(t)

	nonce, err := GenerateNonce()
	require.NoError(t, err)
	sealed, err := Seal([]byte("hello"), nonce, bob.Public[:], alice.Private[:])
	require.NoError(t, err)

	var shared [KeySize]byte
	box.Precompute(&shared, &bob.Public, &alice.Private)
	var n [NonceSize]byte
	copy(n[:], nonce)

	opened, ok := secretbox.Open(nil, sealed, &n, &shared)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), opened)
}

func TestOpenRejectsBitFlips(t *testing.T) {
	alice, bob := testKeyPairs(t)

	nonce, err := GenerateNonce()
	require.NoError(t, err)
	sealed, err := Seal([]byte("attack at dawn"), nonce, bob.Public[:], alice.Private[:])
	require.NoError(t, err)

	// Flip one bit at a time across ciphertext and tag.
	for i := range sealed {
		tampered := append([]byte(nil), sealed...)
		tampered[i] ^= 0x01

		plaintext, err := Open(tampered, nonce, alice.Public[:], bob.Private[:])
		assert.ErrorIs(t, err, ErrDecryptionFailed, "byte %d", i)
		assert.Nil(t, plaintext, "byte %d", i)
	}
}

func TestOpenWrongKey(t *testing.T) {
	alice, bob := testKeyPairs(t)
	eve, err := GenerateKeyPair()
	require.NoError(t, err)

	nonce, err := GenerateNonce()
	require.NoError(t, err)
	sealed, err := Seal([]byte("secret"), nonce, bob.Public[:], alice.Private[:])
	require.NoError(t, err)

	_, err = Open(sealed, nonce, alice.Public[:], eve.Private[:])
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestSealValidatesWidths(t *testing.T) {
	alice, bob := testKeyPairs(t)
	nonce := make([]byte, NonceSize)

	tests := []struct {
		name  string
		nonce []byte
		pub   []byte
		priv  []byte
		want  error
	}{
		{"short public", nonce, bob.Public[:16], alice.Private[:], ErrInvalidKeySize},
		{"long public", nonce, make([]byte, 64), alice.Private[:], ErrInvalidKeySize},
		{"short private", nonce, bob.Public[:], alice.Private[:31], ErrInvalidKeySize},
		{"empty private", nonce, bob.Public[:], nil, ErrInvalidKeySize},
		{"short nonce", nonce[:12], bob.Public[:], alice.Private[:], ErrInvalidNonceSize},
		{"long nonce", make([]byte, 32), bob.Public[:], alice.Private[:], ErrInvalidNonceSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Seal([]byte("x"), tt.nonce, tt.pub, tt.priv)
			assert.ErrorIs(t, err, tt.want)

			_, err = Open([]byte("x"), tt.nonce, tt.pub, tt.priv)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateNonceUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		nonce, err := GenerateNonce()
		require.NoError(t, err)
		require.Len(t, nonce, NonceSize)

		if _, dup := seen[string(nonce)]; dup {
			t.Fatal("duplicate nonce generated")
		}
		seen[string(nonce)] = struct{}{}
	}
}

func TestOpenTruncatedBox(t *testing.T) {
	alice, bob := testKeyPairs(t)
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		t.Fatal(err)
	}

	sealed, err := Seal([]byte("hello"), nonce, bob.Public[:], alice.Private[:])
	require.NoError(t, err)

	for _, n := range []int{0, 1, TagSize - 1} {
		_, err := Open(sealed[:n], nonce, alice.Public[:], bob.Private[:])
		assert.ErrorIs(t, err, ErrDecryptionFailed, "length %d", n)
	}
}
