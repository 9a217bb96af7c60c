package proverstate

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
)

// InputParser converts a JSON-encoded circuit assignment into a witness
// circuit value. Adapted from the teacher's server-side circuit wiring.
type InputParser interface {
	Parse(publicInput, privateInput []byte) (frontend.Circuit, error)
}

// Lane bundles one proving setup's loaded constraint system and keys: the
// default lane always exists, the new lane exists only once a new setup
// directory is configured and its resources are loaded.
type Lane struct {
	CS           constraint.ConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
	InputParser  InputParser
}

// Public returns the subset of a Lane needed to verify (not produce) a
// proof.
func (l Lane) Public() PublicLane {
	return PublicLane{CS: l.CS, VerifyingKey: l.VerifyingKey, InputParser: l.InputParser}
}

// Prove runs the Groth16 prover over the assignment JSON and returns the
// raw serialized proof bytes.
func (l Lane) Prove(assignmentJSON []byte) ([]byte, error) {
	assignment, err := l.InputParser.Parse(assignmentJSON, []byte("{}"))
	if err != nil {
		return nil, fmt.Errorf("parsing circuit assignment: %w", err)
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}

	proof, err := groth16.Prove(l.CS, l.ProvingKey, witness)
	if err != nil {
		return nil, fmt.Errorf("proof creation failed: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing proof failed: %w", err)
	}
	return buf.Bytes(), nil
}

// PublicLane is the verification-only view of a Lane.
type PublicLane struct {
	CS           constraint.ConstraintSystem
	VerifyingKey groth16.VerifyingKey
	InputParser  InputParser
}

// Verify checks a serialized proof against the assignment's public signals.
func (l PublicLane) Verify(assignmentJSON, proofBytes []byte) error {
	assignment, err := l.InputParser.Parse(assignmentJSON, []byte("{}"))
	if err != nil {
		return fmt.Errorf("parsing circuit assignment: %w", err)
	}

	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("parsing proof failed: %w", err)
	}

	if err := groth16.Verify(proof, l.VerifyingKey, publicWitness); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}
