// Package threema is a client library for the Threema gateway.
//
// It implements the end-to-end encrypted message flow: messages are
// encoded into the fixed binary wire layout, padded, sealed with NaCl
// box (Curve25519 key agreement, XSalsa20-Poly1305) under the
// recipient's long-term public key and submitted to the gateway over a
// TLS connection pinned to a compiled-in root set. The gateway only
// ever sees ciphertext.
//
// Basic usage:
//
//	client, err := threema.New("*YOURGWID", apiSecret, privateKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	msgID, err := client.SendText(ctx, "ECHOECHO", "hello")
//
// Identities can also be restored from an encrypted backup string:
//
//	client, err := threema.NewFromBackup(backup, password, apiSecret)
//
// Incoming messages arrive via the gateway callback; HandleCallback
// verifies the callback MAC, decrypts the box and decodes the message:
//
//	cb, msg, err := client.HandleCallback(ctx, r.PostForm)
//
// All errors can be inspected with errors.Is against the package
// sentinel errors.
package threema
