package threema

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/bluec0re/threema-go/internal/api"
	"github.com/bluec0re/threema-go/internal/crypto"
)

// Published HMAC keys for the directory hash lookups. Hashing the
// address client-side keeps the cleartext email/phone number off the
// wire.
var (
	emailHashKey = mustHex("30a5500fed9701fa6defdb610841900febb8e430881f7ad816826264ec09bad7")
	phoneHashKey = mustHex("85adf8226953f3d96cfd5d09bf29555eb955fcd8aa5ec4f9fcd869e258370723")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Client sends and receives end-to-end encrypted messages through the
// gateway on behalf of one identity. It is safe for concurrent use.
type Client struct {
	identity *Identity
	api      *api.Client

	mu         sync.RWMutex
	peers      map[ThreemaID][crypto.KeySize]byte
	autoLookup bool

	secret string
}

// New creates a client for the given gateway identity, API secret and
// 32-byte private key.
func New(id, secret string, privateKey []byte, opts ...Option) (*Client, error) {
	identity, err := NewIdentity(id, privateKey)
	if err != nil {
		return nil, err
	}
	return newClient(identity, secret, opts...)
}

// NewFromBackup creates a client from an encrypted identity backup
// string.
func NewFromBackup(backup, password, secret string, opts ...Option) (*Client, error) {
	identity, err := IdentityFromBackup(backup, password)
	if err != nil {
		return nil, err
	}
	return newClient(identity, secret, opts...)
}

func newClient(identity *Identity, secret string, opts ...Option) (*Client, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	cfg := &clientConfig{
		retryConfig: api.DefaultRetryConfig(),
		autoLookup:  true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithRetryConfig(cfg.retryConfig),
	}
	if cfg.baseURL != "" {
		apiOpts = append(apiOpts, api.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.userAgent != "" {
		apiOpts = append(apiOpts, api.WithUserAgent(cfg.userAgent))
	}

	apiClient, err := api.New(identity.ID.String(), secret, apiOpts...)
	if err != nil {
		return nil, wrapError(err)
	}
	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	return &Client{
		identity:   identity,
		api:        apiClient,
		peers:      make(map[ThreemaID][crypto.KeySize]byte),
		autoLookup: cfg.autoLookup,
		secret:     secret,
	}, nil
}

// Identity returns the identity the client operates as.
func (c *Client) Identity() *Identity {
	return c.identity
}

// SetPeerPublicKey stores a verified public key for a peer, bypassing
// directory lookup for that peer from then on.
func (c *Client) SetPeerPublicKey(id string, publicKey []byte) error {
	tid, err := ParseID(id)
	if err != nil {
		return err
	}
	if len(publicKey) != crypto.KeySize {
		return &ValidationError{Field: "public key", Message: "must be 32 bytes"}
	}

	var key [crypto.KeySize]byte
	copy(key[:], publicKey)

	c.mu.Lock()
	c.peers[tid] = key
	c.mu.Unlock()
	return nil
}

// LookupPublicKey returns the public key of the given identity,
// fetching it from the directory on first use and caching it.
func (c *Client) LookupPublicKey(ctx context.Context, id string) ([]byte, error) {
	tid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	key, err := c.peerKey(ctx, tid)
	if err != nil {
		return nil, err
	}
	return key[:], nil
}

func (c *Client) peerKey(ctx context.Context, id ThreemaID) ([crypto.KeySize]byte, error) {
	c.mu.RLock()
	key, ok := c.peers[id]
	c.mu.RUnlock()
	if ok {
		return key, nil
	}

	if !c.autoLookup {
		return key, ErrUnknownPeer
	}

	key, err := c.api.LookupPublicKey(ctx, id.String())
	if err != nil {
		return key, wrapError(err)
	}

	c.mu.Lock()
	c.peers[id] = key
	c.mu.Unlock()
	return key, nil
}

// SendMessage encodes, pads and seals msg for the recipient and
// submits it to the gateway.
func (c *Client) SendMessage(ctx context.Context, to string, msg Message) (MessageID, error) {
	var msgID MessageID

	tid, err := ParseID(to)
	if err != nil {
		return msgID, err
	}
	peerKey, err := c.peerKey(ctx, tid)
	if err != nil {
		return msgID, err
	}

	padded, err := EncodeMessage(msg)
	if err != nil {
		return msgID, err
	}

	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return msgID, err
	}
	box, err := crypto.Seal(padded, nonce, peerKey[:], c.identity.PrivateKey())
	if err != nil {
		return msgID, err
	}

	raw, err := c.api.SendE2E(ctx, tid.String(), nonce, box)
	if err != nil {
		return msgID, wrapError(err)
	}
	return ParseMessageID(raw)
}

// SendText sends a text message.
func (c *Client) SendText(ctx context.Context, to, text string) (MessageID, error) {
	return c.SendMessage(ctx, to, &TextMessage{Text: text})
}

// SendDeliveryReceipt acknowledges the given message IDs with status.
func (c *Client) SendDeliveryReceipt(ctx context.Context, to string, status DeliveryStatus, ids ...MessageID) (MessageID, error) {
	return c.SendMessage(ctx, to, &DeliveryReceipt{Status: status, MessageIDs: ids})
}

// SendTyping signals whether this identity is typing to the recipient.
func (c *Client) SendTyping(ctx context.Context, to string, typing bool) (MessageID, error) {
	n := &TypingNotification{}
	if typing {
		n.Typing = 1
	}
	return c.SendMessage(ctx, to, n)
}

// DecryptMessage opens a sealed message from the given sender and
// decodes it. The sender's public key is looked up if not cached.
func (c *Client) DecryptMessage(ctx context.Context, from string, nonce, box []byte) (Message, error) {
	tid, err := ParseID(from)
	if err != nil {
		return nil, err
	}
	peerKey, err := c.peerKey(ctx, tid)
	if err != nil {
		return nil, err
	}

	padded, err := crypto.Open(box, nonce, peerKey[:], c.identity.PrivateKey())
	if err != nil {
		return nil, wrapError(err)
	}
	return DecodeMessage(padded)
}

// Credits returns the remaining message credits on the account.
func (c *Client) Credits(ctx context.Context) (int, error) {
	credits, err := c.api.Credits(ctx)
	if err != nil {
		return 0, wrapError(err)
	}
	return credits, nil
}

// LookupIDByEmail resolves an identity from an email address. The
// address is normalized and hashed client-side.
func (c *Client) LookupIDByEmail(ctx context.Context, email string) (ThreemaID, error) {
	hash := lookupHash(emailHashKey, strings.ToLower(strings.TrimSpace(email)))
	raw, err := c.api.LookupIDByEmailHash(ctx, hash)
	if err != nil {
		return ThreemaID{}, wrapError(err)
	}
	return ParseID(raw)
}

// LookupIDByPhone resolves an identity from a phone number in E.164
// format. Everything but digits is stripped before hashing.
func (c *Client) LookupIDByPhone(ctx context.Context, phone string) (ThreemaID, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	hash := lookupHash(phoneHashKey, digits)
	raw, err := c.api.LookupIDByPhoneHash(ctx, hash)
	if err != nil {
		return ThreemaID{}, wrapError(err)
	}
	return ParseID(raw)
}

func lookupHash(key []byte, value string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// callbackMAC computes the authenticator the gateway attaches to
// callbacks: HMAC-SHA256 over from||to||messageId||date||nonce||box,
// keyed with the API secret.
func (c *Client) callbackMAC(from, to, messageID, date, nonce, box string) []byte {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(from))
	mac.Write([]byte(to))
	mac.Write([]byte(messageID))
	mac.Write([]byte(date))
	mac.Write([]byte(nonce))
	mac.Write([]byte(box))
	return mac.Sum(nil)
}
