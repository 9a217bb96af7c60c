package signals

import (
	"math/big"
	"testing"
)

func TestPadRightPadsBytesToMaxLength(t *testing.T) {
	b := New().BytesInput("jwt", []byte("abc"))
	padded, err := b.Pad(PaddingConfig{MaxLengths: map[string]int{"jwt": 8}})
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	v, ok := padded.Get("jwt")
	if !ok {
		t.Fatalf("jwt missing after pad")
	}
	if len(v.Bytes) != 8 {
		t.Fatalf("len = %d, want 8", len(v.Bytes))
	}
	if string(v.Bytes[:3]) != "abc" {
		t.Fatalf("prefix mismatch: %q", v.Bytes[:3])
	}
	for _, b := range v.Bytes[3:] {
		if b != 0 {
			t.Fatalf("expected zero padding, got %v", v.Bytes[3:])
		}
	}
}

func TestPadRejectsOverLengthInput(t *testing.T) {
	b := New().BytesInput("jwt", make([]byte, 10))
	if _, err := b.Pad(PaddingConfig{MaxLengths: map[string]int{"jwt": 4}}); err == nil {
		t.Fatal("expected error for over-length input")
	}
}

func TestMergeRejectsDuplicateNames(t *testing.T) {
	a := New().BoolInput("flag", true)
	b := New().BoolInput("flag", false)
	if _, err := a.Merge(b); err == nil {
		t.Fatal("expected error for duplicate signal name")
	}
}

func TestMergeCombinesDistinctNames(t *testing.T) {
	a := New().U64Input("x", 1)
	b := New().U64Input("y", 2)
	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	padded, err := merged.Pad(PaddingConfig{})
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if len(padded.Names()) != 2 {
		t.Fatalf("expected 2 names, got %d", len(padded.Names()))
	}
}

func TestFrsInputPreservedThroughPad(t *testing.T) {
	frs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	b := New().FrsInput("temp_pubkey", frs)
	padded, err := b.Pad(PaddingConfig{})
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	v, ok := padded.Get("temp_pubkey")
	if !ok || len(v.Frs) != 3 {
		t.Fatalf("temp_pubkey signal missing or wrong length")
	}
}
