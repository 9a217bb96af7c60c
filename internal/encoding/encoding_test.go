package encoding

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"
)

func TestJwtPartsRoundTrip(t *testing.T) {
	s := "aGVhZGVy.cGF5bG9hZA.c2ln"
	parts, err := FromB64(s)
	if err != nil {
		t.Fatalf("FromB64: %v", err)
	}
	if got := parts.Join(); got != s {
		t.Fatalf("Join() = %q, want %q", got, s)
	}
}

func TestFromB64RejectsWrongSegmentCount(t *testing.T) {
	if _, err := FromB64("a.b"); err == nil {
		t.Fatal("expected error for 2-segment input")
	}
	if _, err := FromB64("a.b.c.d"); err == nil {
		t.Fatal("expected error for 4-segment input")
	}
}

func TestShaPadLengthInvariant(t *testing.T) {
	for _, n := range []int{0, 1, 55, 56, 63, 64, 65, 1000} {
		m := make([]byte, n)
		padded := WithShaPaddingBytes(m)
		if len(padded)%64 != 0 {
			t.Fatalf("len=%d: padded length %d not a multiple of 64", n, len(padded))
		}
		if len(padded) < len(m)+9 {
			t.Fatalf("len=%d: padded length %d shorter than m+9", n, len(padded))
		}
	}
}

func TestTempPubkeyPacking(t *testing.T) {
	skHex := "76b8e0ada0f13d90405d6ae55386bd28bdd219b8a08ded1aa836efcc8b770dc7"
	skHex = skHex[:64] // ed25519 seed is 32 bytes (64 hex characters)
	seed, err := hex.DecodeString(skHex)
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	sk := ed25519.NewKeyFromSeed(seed)
	pub := sk.Public().(ed25519.PublicKey)

	// BCS encoding of EphemeralPublicKey::Ed25519: the enum variant index
	// (0 = Ed25519), the ULEB128 byte length (32), then the raw 32-byte
	// public key — 34 bytes in all.
	epkBytes := append([]byte{0, 32}, pub...)

	const maxCommitedEpkBytes = 93
	frs, err := PackBytesToScalars(epkBytes, maxCommitedEpkBytes)
	if err != nil {
		t.Fatalf("PackBytesToScalars: %v", err)
	}
	if len(frs) != 4 {
		t.Fatalf("expected 3 chunks + 1 length scalar, got %d elements", len(frs))
	}
	if frs[3].Int64() != int64(len(epkBytes)) {
		t.Fatalf("length scalar = %d, want %d", frs[3].Int64(), len(epkBytes))
	}
}
