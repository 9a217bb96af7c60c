package bcs

import (
	"bytes"
	"testing"
)

func TestEncodeUleb128SmallValue(t *testing.T) {
	got := EncodeUleb128(nil, 5)
	if !bytes.Equal(got, []byte{5}) {
		t.Fatalf("got %v", got)
	}
}

func TestEncodeUleb128MultiByte(t *testing.T) {
	got := EncodeUleb128(nil, 300)
	want := []byte{0xac, 0x02}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeEnumVariantBytesEd25519Signature(t *testing.T) {
	sig := make([]byte, 64)
	for i := range sig {
		sig[i] = byte(i)
	}
	got := EncodeEnumVariantBytes(Ed25519Variant, sig)
	if got[0] != 0 {
		t.Fatalf("expected variant byte 0, got %v", got[0])
	}
	if got[1] != 64 {
		t.Fatalf("expected length byte 64, got %v", got[1])
	}
	if !bytes.Equal(got[2:], sig) {
		t.Fatalf("payload mismatch")
	}
}
