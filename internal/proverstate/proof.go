package proverstate

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	bn254backend "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/zkprover/keyless-prover/internal/trainingwheels"
)

// DecodeProof splits a serialized gnark Groth16 proof into the compressed
// (pi_a, pi_b, pi_c) triple the response envelope and training-wheels
// signature both operate on.
func DecodeProof(proofBytes []byte) (trainingwheels.Groth16Proof, error) {
	var out trainingwheels.Groth16Proof

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return out, fmt.Errorf("parsing proof: %w", err)
	}

	p, ok := proof.(*bn254backend.Proof)
	if !ok {
		return out, fmt.Errorf("unexpected proof implementation type %T", proof)
	}

	out.PiA = p.Ar.Bytes()
	out.PiB = p.Bs.Bytes()
	out.PiC = p.Krs.Bytes()
	return out, nil
}
