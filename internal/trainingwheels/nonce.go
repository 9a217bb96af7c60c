// Package trainingwheels implements the Ed25519 "training wheels" signing
// authority (C7/C8 glue): JWT signature/date validation, the nonce and
// payload-parsing cross-checks (C4), and signing the (proof, public
// inputs hash) pair that is rotated in lockstep with on-chain config.
package trainingwheels

import (
	"math/big"

	"github.com/zkprover/keyless-prover/internal/encoding"
)

// ComputeNonce recomputes the nonce the client's JWT claims to commit to:
// Poseidon(pack(epk, max) || exp_date || epk_blinder), a pure function of
// its inputs (P5).
func ComputeNonce(expDate uint64, epk []byte, epkBlinderFr *big.Int, maxCommitedEpkBytes int) (*big.Int, error) {
	frs, err := encoding.PackBytesToScalars(epk, maxCommitedEpkBytes)
	if err != nil {
		return nil, err
	}

	frs = append(frs, new(big.Int).SetUint64(expDate), epkBlinderFr)

	return encoding.HashScalars(frs)
}
