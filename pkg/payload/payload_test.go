// Copyright 2025 Certen Protocol

package payload

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := Payload{
		MtrHash: bytes.Repeat([]byte{0xab}, 32),
		Params: map[string]string{
			"vrf_pk": "abc123",
			"sig_pk": "def456",
			"dh_pk":  "ghi789",
		},
		IdentityInfo: []byte("Hi, I'm someone"),
		Nonce:        bytes.Repeat([]byte{0x01}, 16),
		Timestamp:    1700000000,
		Version:      ProtocolVersion,
	}

	got, err := Decode(Encode(p))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.MtrHash, p.MtrHash) {
		t.Fatal("MtrHash did not round-trip")
	}
	if !bytes.Equal(got.IdentityInfo, p.IdentityInfo) {
		t.Fatal("IdentityInfo did not round-trip")
	}
	if !bytes.Equal(got.Nonce, p.Nonce) {
		t.Fatal("Nonce did not round-trip")
	}
	if got.Timestamp != p.Timestamp || got.Version != p.Version {
		t.Fatal("Timestamp/Version did not round-trip")
	}
	for k, v := range p.Params {
		if got.Params[k] != v {
			t.Fatalf("Params[%q] = %q, want %q", k, got.Params[k], v)
		}
	}
}

func TestEncodeDecodeRoundTripWithNilMtrHash(t *testing.T) {
	p := Payload{
		Params:  map[string]string{"vrf_pk": "abc"},
		Nonce:   bytes.Repeat([]byte{0x02}, 16),
		Version: ProtocolVersion,
	}
	got, err := Decode(Encode(p))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MtrHash != nil {
		t.Fatal("a payload committed with no entries should decode back to a nil MtrHash")
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	p := Payload{
		MtrHash: bytes.Repeat([]byte{0xcd}, 32),
		Params:  map[string]string{"vrf_pk": "abc"},
		Nonce:   bytes.Repeat([]byte{0x03}, 16),
		Version: ProtocolVersion,
	}
	encoded := Encode(p)
	if _, err := Decode(encoded[:len(encoded)-4]); err == nil {
		t.Fatal("Decode should reject truncated input, not panic or silently succeed")
	}
}
