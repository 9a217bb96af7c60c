package trainingwheels

import (
	"crypto/ed25519"
	"fmt"

	"github.com/zkprover/keyless-prover/internal/bcs"
	"github.com/zkprover/keyless-prover/internal/inputproc"
)

// Groth16Proof is the compressed BN254 Groth16 proof triple returned to
// clients: pi_a, pi_c in G1 (32 compressed bytes each), pi_b in G2 (64
// compressed bytes).
type Groth16Proof struct {
	PiA [32]byte
	PiB [64]byte
	PiC [32]byte
}

// canonicalMessage builds the byte string signed by the training-wheels
// key: the proof triple followed by the public inputs hash, in a fixed
// field order. This stands in for the original service's
// CryptoHash-derived `Groth16ProofAndStatement` BCS message (the exact
// domain-separator bytes are a property of the Aptos crypto crate and were
// not part of the retrieved source); the signed bytes here are
// deterministic and order-preserving, which is what the verification side
// (Verify) relies on.
func canonicalMessage(proof Groth16Proof, publicInputsHash inputproc.PoseidonHash) []byte {
	out := make([]byte, 0, 32+64+32+32)
	out = append(out, proof.PiA[:]...)
	out = append(out, proof.PiB[:]...)
	out = append(out, proof.PiC[:]...)
	out = append(out, publicInputsHash[:]...)
	return out
}

// Sign produces the Ed25519 training-wheels signature over (proof,
// public_inputs_hash).
func Sign(privateKey ed25519.PrivateKey, proof Groth16Proof, publicInputsHash inputproc.PoseidonHash) []byte {
	return ed25519.Sign(privateKey, canonicalMessage(proof, publicInputsHash))
}

// Verify checks a training-wheels signature — used only for the
// enable_debug_checks self-check before responding.
func Verify(publicKey ed25519.PublicKey, proof Groth16Proof, publicInputsHash inputproc.PoseidonHash, signature []byte) error {
	if !ed25519.Verify(publicKey, canonicalMessage(proof, publicInputsHash), signature) {
		return fmt.Errorf("training wheels signature failed to verify")
	}
	return nil
}

// EncodeEphemeralSignature BCS-encodes the Ed25519 signature as the
// on-chain `EphemeralSignature::Ed25519` enum variant.
func EncodeEphemeralSignature(signature []byte) []byte {
	return bcs.EncodeEnumVariantBytes(bcs.Ed25519Variant, signature)
}
