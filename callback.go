package threema

import (
	"context"
	"crypto/hmac"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Callback is a decoded gateway callback: the gateway delivers
// incoming messages for the account by POSTing these fields to the
// configured callback URL.
type Callback struct {
	From      ThreemaID
	To        ThreemaID
	MessageID MessageID
	Date      time.Time
	Nonce     []byte
	Box       []byte
}

// ParseCallback validates a callback form against the API secret and
// decodes its fields. The MAC covers every field, so a callback that
// parses successfully is known to come from the gateway.
func (c *Client) ParseCallback(form url.Values) (*Callback, error) {
	for _, field := range []string{"from", "to", "messageId", "date", "nonce", "box", "mac"} {
		if !form.Has(field) {
			return nil, fmt.Errorf("%w: missing field %q", ErrInvalidCallback, field)
		}
	}

	want := c.callbackMAC(
		form.Get("from"),
		form.Get("to"),
		form.Get("messageId"),
		form.Get("date"),
		form.Get("nonce"),
		form.Get("box"),
	)
	got, err := hex.DecodeString(form.Get("mac"))
	if err != nil || !hmac.Equal(want, got) {
		return nil, fmt.Errorf("%w: MAC mismatch", ErrInvalidCallback)
	}

	from, err := ParseID(form.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	to, err := ParseID(form.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	messageID, err := ParseMessageID(form.Get("messageId"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	unix, err := strconv.ParseInt(form.Get("date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidCallback, form.Get("date"))
	}
	nonce, err := hex.DecodeString(form.Get("nonce"))
	if err != nil {
		return nil, fmt.Errorf("%w: nonce is not hex", ErrInvalidCallback)
	}
	box, err := hex.DecodeString(form.Get("box"))
	if err != nil {
		return nil, fmt.Errorf("%w: box is not hex", ErrInvalidCallback)
	}

	return &Callback{
		From:      from,
		To:        to,
		MessageID: messageID,
		Date:      time.Unix(unix, 0),
		Nonce:     nonce,
		Box:       box,
	}, nil
}

// HandleCallback verifies and decrypts an incoming gateway callback in
// one step, returning the decoded message.
func (c *Client) HandleCallback(ctx context.Context, form url.Values) (*Callback, Message, error) {
	cb, err := c.ParseCallback(form)
	if err != nil {
		return nil, nil, err
	}
	msg, err := c.DecryptMessage(ctx, cb.From.String(), cb.Nonce, cb.Box)
	if err != nil {
		return cb, nil, err
	}
	return cb, msg, nil
}
