package proverstate

import (
	"crypto/ed25519"
	"testing"
)

func TestTrainingWheelsKeyPairFromSeedDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	a := TrainingWheelsKeyPairFromSeed(seed)
	b := TrainingWheelsKeyPairFromSeed(seed)

	if !a.VerificationKey.Equal(b.VerificationKey) {
		t.Fatalf("expected the same seed to derive the same verification key")
	}
	if !configEqual(a.OnChainRepr, b.OnChainRepr) {
		t.Fatalf("expected the same seed to derive the same on-chain representation")
	}
}

func TestOnChainKeylessConfigurationFromTWPubkeyEmptyVec(t *testing.T) {
	cfg := OnChainKeylessConfigurationFromTWPubkey(nil)
	if len(cfg.Data.TrainingWheelsPubkey.Vec) != 0 {
		t.Fatalf("expected an empty vec for a disabled training-wheels key, got %v", cfg.Data.TrainingWheelsPubkey.Vec)
	}
}

func TestOnChainKeylessConfigurationFromTWPubkeyEncodesHexKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	cfg := OnChainKeylessConfigurationFromTWPubkey(pub)
	if len(cfg.Data.TrainingWheelsPubkey.Vec) != 1 {
		t.Fatalf("expected exactly one encoded key, got %v", cfg.Data.TrainingWheelsPubkey.Vec)
	}
	if got := cfg.Data.TrainingWheelsPubkey.Vec[0][:2]; got != "0x" {
		t.Fatalf("expected a 0x-prefixed hex key, got %q", got)
	}
}

func TestDefaultConfigDataMatchesMaxCommitedEpkBytesFallback(t *testing.T) {
	// derive.go falls back to 93 bytes when no "temp_pubkey" padding length
	// is configured; this keeps that fallback and the on-chain defaults in
	// sync so CheckNonceConsistency and DeriveCircuitInputSignals agree.
	if DefaultConfigData.MaxCommitedEpkBytes != 93 {
		t.Fatalf("MaxCommitedEpkBytes = %d, want 93", DefaultConfigData.MaxCommitedEpkBytes)
	}
}
