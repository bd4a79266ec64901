package session

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func testKey(t *testing.T) *[keySize]byte {
	t.Helper()
	key, err := ParseKey(hex.EncodeToString(bytes.Repeat([]byte{0xab}, keySize)))
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	return key
}

func TestParseKeyRejectsBadInput(t *testing.T) {
	if _, err := ParseKey("not-hex"); err == nil {
		t.Fatalf("expected error for non-hex key")
	}
	if _, err := ParseKey("abcd"); err == nil {
		t.Fatalf("expected error for short key")
	}
}

func TestSealRoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte(`{"userId":"u1","authToken":"tok"}`)

	sealed, err := seal(key, plaintext)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("tok")) {
		t.Fatalf("sealed payload leaks plaintext")
	}

	opened, err := open(key, sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("round trip mismatch: %q", opened)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	key := testKey(t)
	sealed, err := seal(key, []byte("payload"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	sealed[len(sealed)-1] ^= 0x01
	if _, err := open(key, sealed); !errors.Is(err, errSealTampered) {
		t.Fatalf("expected tamper rejection, got %v", err)
	}
}

func TestOpenRejectsTruncatedPayload(t *testing.T) {
	key := testKey(t)
	if _, err := open(key, []byte("short")); !errors.Is(err, errSealTampered) {
		t.Fatalf("expected tamper rejection, got %v", err)
	}
}

func TestSealUsesFreshNonces(t *testing.T) {
	key := testKey(t)
	first, err := seal(key, []byte("same payload"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	second, err := seal(key, []byte("same payload"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatalf("two seals of the same payload must differ")
	}
}
