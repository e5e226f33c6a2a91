package secret

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, 32)
}

func TestBoxSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	box, err := New(testKey())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sealed, err := box.Seal("xoxb-test")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if !strings.HasPrefix(sealed, sealedPrefix) {
		t.Fatalf("sealed value %q should carry prefix %q", sealed, sealedPrefix)
	}
	if strings.Contains(sealed, "xoxb-test") {
		t.Fatal("sealed value leaks plaintext")
	}

	opened, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != "xoxb-test" {
		t.Fatalf("Open() = %q, want %q", opened, "xoxb-test")
	}
}

func TestBoxSealUsesFreshNonce(t *testing.T) {
	t.Parallel()

	box, err := New(testKey())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, _ := box.Seal("same")
	second, _ := box.Seal("same")
	if first == second {
		t.Fatal("two seals of the same value should differ")
	}
}

func TestNilBoxPassesThrough(t *testing.T) {
	t.Parallel()

	var box *Box
	sealed, err := box.Seal("plain")
	if err != nil || sealed != "plain" {
		t.Fatalf("Seal() = (%q, %v), want (plain, nil)", sealed, err)
	}

	opened, err := box.Open("plain")
	if err != nil || opened != "plain" {
		t.Fatalf("Open() = (%q, %v), want (plain, nil)", opened, err)
	}

	_, err = box.Open(sealedPrefix + "AAAA")
	if !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("Open() error = %v, want ErrKeyRequired", err)
	}
}

func TestNewFromBase64(t *testing.T) {
	t.Parallel()

	box, err := NewFromBase64("")
	if err != nil || box != nil {
		t.Fatalf("NewFromBase64(\"\") = (%v, %v), want (nil, nil)", box, err)
	}

	box, err = NewFromBase64(base64.StdEncoding.EncodeToString(testKey()))
	if err != nil {
		t.Fatalf("NewFromBase64() error = %v", err)
	}
	if !box.Enabled() {
		t.Fatal("box should be enabled")
	}

	if _, err := NewFromBase64(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewFromBase64("%%%"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	t.Parallel()

	box, _ := New(testKey())
	sealed, _ := box.Seal("secret")

	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	raw[len(raw)-1] ^= 0xff
	tampered := sealedPrefix + base64.StdEncoding.EncodeToString(raw)

	if _, err := box.Open(tampered); err == nil {
		t.Fatal("expected error for tampered value")
	}
}
