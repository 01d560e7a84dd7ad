package api

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
)

// LookupPublicKey fetches the long-term public key of the given
// identity. The gateway returns the key hex-encoded.
func (c *Client) LookupPublicKey(ctx context.Context, id string) ([32]byte, error) {
	var key [32]byte

	body, err := c.get(ctx, "/pubkeys/"+url.PathEscape(id), nil)
	if err != nil {
		return key, err
	}

	raw, err := hex.DecodeString(body)
	if err != nil {
		return key, fmt.Errorf("%w: public key is not hex", ErrInvalidResponse)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("%w: public key is %d bytes, want %d", ErrInvalidResponse, len(raw), len(key))
	}
	copy(key[:], raw)
	return key, nil
}

// SendE2E submits a sealed message for the recipient identity and
// returns the gateway-assigned message ID.
func (c *Client) SendE2E(ctx context.Context, to string, nonce, box []byte) (string, error) {
	form := url.Values{}
	form.Set("to", to)
	form.Set("nonce", hex.EncodeToString(nonce))
	form.Set("box", hex.EncodeToString(box))

	messageID, err := c.postForm(ctx, "/send_e2e", form)
	if err != nil {
		return "", err
	}
	if len(messageID) != 16 {
		return "", fmt.Errorf("%w: message ID %q", ErrInvalidResponse, messageID)
	}
	return messageID, nil
}

// Credits returns the number of message credits left on the account.
func (c *Client) Credits(ctx context.Context) (int, error) {
	body, err := c.get(ctx, "/credits", nil)
	if err != nil {
		return 0, err
	}

	credits, err := strconv.Atoi(body)
	if err != nil {
		return 0, fmt.Errorf("%w: credits %q", ErrInvalidResponse, body)
	}
	return credits, nil
}

// LookupIDByPhoneHash resolves an identity from an HMAC-SHA256 phone
// number hash (hex-encoded).
func (c *Client) LookupIDByPhoneHash(ctx context.Context, hash string) (string, error) {
	return c.lookupID(ctx, "/lookup/phone_hash/"+url.PathEscape(hash))
}

// LookupIDByEmailHash resolves an identity from an HMAC-SHA256 email
// address hash (hex-encoded).
func (c *Client) LookupIDByEmailHash(ctx context.Context, hash string) (string, error) {
	return c.lookupID(ctx, "/lookup/email_hash/"+url.PathEscape(hash))
}

func (c *Client) lookupID(ctx context.Context, path string) (string, error) {
	id, err := c.get(ctx, path, nil)
	if err != nil {
		return "", err
	}
	if len(id) != 8 {
		return "", fmt.Errorf("%w: identity %q", ErrInvalidResponse, id)
	}
	return id, nil
}
