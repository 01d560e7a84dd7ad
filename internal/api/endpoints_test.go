package api

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupPublicKey(t *testing.T) {
	t.Parallel()
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pubkeys/ECHOECHO" {
			t.Errorf("path = %s, want /pubkeys/ECHOECHO", r.URL.Path)
		}
		w.Write([]byte(hex.EncodeToString(key[:]) + "\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	got, err := client.LookupPublicKey(context.Background(), "ECHOECHO")
	if err != nil {
		t.Fatalf("LookupPublicKey() error = %v", err)
	}
	if got != key {
		t.Errorf("LookupPublicKey() = %x, want %x", got, key)
	}
}

func TestLookupPublicKey_MalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not hex", "zzzz"},
		{"wrong length", "aabbcc"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server)
			_, err := client.LookupPublicKey(context.Background(), "ECHOECHO")
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("error = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestSendE2E(t *testing.T) {
	t.Parallel()
	nonce := make([]byte, 24)
	box := []byte{0xde, 0xad, 0xbe, 0xef}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/send_e2e" {
			t.Errorf("path = %s, want /send_e2e", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("to"); got != "ECHOECHO" {
			t.Errorf("to = %q, want ECHOECHO", got)
		}
		if got := r.PostForm.Get("nonce"); got != hex.EncodeToString(nonce) {
			t.Errorf("nonce = %q", got)
		}
		if got := r.PostForm.Get("box"); got != "deadbeef" {
			t.Errorf("box = %q, want deadbeef", got)
		}
		w.Write([]byte("0011223344556677"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	id, err := client.SendE2E(context.Background(), "ECHOECHO", nonce, box)
	if err != nil {
		t.Fatalf("SendE2E() error = %v", err)
	}
	if id != "0011223344556677" {
		t.Errorf("SendE2E() = %q, want 0011223344556677", id)
	}
}

func TestSendE2E_MalformedMessageID(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.SendE2E(context.Background(), "ECHOECHO", make([]byte, 24), []byte{1})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("SendE2E() error = %v, want ErrInvalidResponse", err)
	}
}

func TestCredits(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/credits" {
			t.Errorf("path = %s, want /credits", r.URL.Path)
		}
		w.Write([]byte("1337"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	credits, err := client.Credits(context.Background())
	if err != nil {
		t.Fatalf("Credits() error = %v", err)
	}
	if credits != 1337 {
		t.Errorf("Credits() = %d, want 1337", credits)
	}
}

func TestCredits_NonNumeric(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("lots"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Credits(context.Background())
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Credits() error = %v, want ErrInvalidResponse", err)
	}
}

func TestLookupIDByHash(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lookup/phone_hash/aabb":
			w.Write([]byte("PHONEID1"))
		case "/lookup/email_hash/ccdd":
			w.Write([]byte("EMAILID1"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)

	id, err := client.LookupIDByPhoneHash(context.Background(), "aabb")
	if err != nil {
		t.Fatalf("LookupIDByPhoneHash() error = %v", err)
	}
	if id != "PHONEID1" {
		t.Errorf("LookupIDByPhoneHash() = %q, want PHONEID1", id)
	}

	id, err = client.LookupIDByEmailHash(context.Background(), "ccdd")
	if err != nil {
		t.Fatalf("LookupIDByEmailHash() error = %v", err)
	}
	if id != "EMAILID1" {
		t.Errorf("LookupIDByEmailHash() = %q, want EMAILID1", id)
	}
}

func TestLookupIDByHash_NotFound(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.LookupIDByPhoneHash(context.Background(), "aabb")
	if !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("LookupIDByPhoneHash() error = %v, want ErrIdentityNotFound", err)
	}
}
