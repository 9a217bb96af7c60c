package trainingwheels

import (
	"crypto/ed25519"
	"testing"

	"github.com/zkprover/keyless-prover/internal/inputproc"
)

func TestSignThenVerifyRoundTrips(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	var proof Groth16Proof
	proof.PiA[0] = 1
	proof.PiB[0] = 2
	proof.PiC[0] = 3
	var hash inputproc.PoseidonHash
	hash[0] = 9

	sig := Sign(priv, proof, hash)
	if err := Verify(pub, proof, hash, sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	var proof, tampered Groth16Proof
	proof.PiA[0] = 1
	tampered.PiA[0] = 2
	var hash inputproc.PoseidonHash

	sig := Sign(priv, proof, hash)
	if err := Verify(pub, tampered, hash, sig); err == nil {
		t.Fatal("expected verification failure for tampered proof")
	}
}

func TestEncodeEphemeralSignatureLayout(t *testing.T) {
	sig := make([]byte, ed25519.SignatureSize)
	encoded := EncodeEphemeralSignature(sig)
	if encoded[0] != 0 {
		t.Fatalf("expected leading variant byte 0, got %d", encoded[0])
	}
	if encoded[1] != byte(ed25519.SignatureSize) {
		t.Fatalf("expected length byte %d, got %d", ed25519.SignatureSize, encoded[1])
	}
}
