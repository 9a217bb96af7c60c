// Package proverstate holds the dual-setup/dual-key runtime state (C7): the
// loaded gnark proving/verifying keys for the default and (optional) new
// Groth16 setups, the training-wheels keypairs for both lanes, and the
// on-chain-format snapshots used to decide which lane a request should use.
package proverstate

import (
	"encoding/hex"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// SnarkJsGroth16VerificationKey is the decimal-string verification key shape
// produced by snarkjs (the local .vkey file written alongside a circom
// circuit's zkey). Only the fields needed to derive the on-chain
// representation are kept.
type SnarkJsGroth16VerificationKey struct {
	VkAlpha1 [3]string    `json:"vk_alpha_1"`
	VkBeta2  [3][2]string `json:"vk_beta_2"`
	VkGamma2 [3][2]string `json:"vk_gamma_2"`
	VkDelta2 [3][2]string `json:"vk_delta_2"`
	IC       [][3]string  `json:"IC"`
}

// OnChainGroth16VerificationKey mirrors the shape returned by an Aptos
// fullnode's 0x1::keyless_account::Groth16VerificationKey resource read:
// every curve point is hex-encoded in compressed form.
type OnChainGroth16VerificationKey struct {
	Type string    `json:"type"`
	Data VKeyData  `json:"data"`
}

// ResourceName identifies this type to the watcher's periodic refresh loop.
func (OnChainGroth16VerificationKey) ResourceName() string { return "OnChainGroth16VerificationKey" }

// VKeyData is the nested data payload of OnChainGroth16VerificationKey.
type VKeyData struct {
	AlphaG1     string   `json:"alpha_g1"`
	BetaG2      string   `json:"beta_g2"`
	DeltaG2     string   `json:"delta_g2"`
	GammaAbcG1  []string `json:"gamma_abc_g1"`
	GammaG2     string   `json:"gamma_g2"`
}

func fqFromDecimal(s string) (fp.Element, error) {
	var e fp.Element
	if _, err := e.SetString(s); err != nil {
		return e, fmt.Errorf("parsing field element %q: %w", s, err)
	}
	return e, nil
}

// jacobianToAffineG1 converts an arkworks-style (X, Y, Z) Jacobian triple
// (affine_x = X/Z^2, affine_y = Y/Z^3) into compressed-point bytes via
// gnark-crypto's BN254 G1Affine encoder.
func jacobianToAffineG1(x, y, z fp.Element) ([]byte, error) {
	if z.IsZero() {
		return nil, fmt.Errorf("point at infinity has no affine representation")
	}
	var zInv, zInv2, zInv3, ax, ay fp.Element
	zInv.Inverse(&z)
	zInv2.Square(&zInv)
	zInv3.Mul(&zInv2, &zInv)
	ax.Mul(&x, &zInv2)
	ay.Mul(&y, &zInv3)

	affine := bn254.G1Affine{X: ax, Y: ay}
	b := affine.Bytes()
	return b[:], nil
}

// jacobianToAffineG2 converts an arkworks-style Fq2 Jacobian triple into
// compressed-point bytes via gnark-crypto's BN254 G2Affine encoder. Fq2
// elements are represented as (A0, A1) pairs matching arkworks' (c0, c1).
func jacobianToAffineG2(x0, x1, y0, y1, z0, z1 fp.Element) ([]byte, error) {
	if z0.IsZero() && z1.IsZero() {
		return nil, fmt.Errorf("point at infinity has no affine representation")
	}

	x := bn254.E2{A0: x0, A1: x1}
	y := bn254.E2{A0: y0, A1: y1}
	z := bn254.E2{A0: z0, A1: z1}

	var zInv, zInv2, zInv3, ax, ay bn254.E2
	zInv.Inverse(&z)
	zInv2.Square(&zInv)
	zInv3.Mul(&zInv2, &zInv)
	ax.Mul(&x, &zInv2)
	ay.Mul(&y, &zInv3)

	affine := bn254.G2Affine{X: ax, Y: ay}
	b := affine.Bytes()
	return b[:], nil
}

func hexPoint(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// TryAsOnchainRepr converts a locally-loaded snarkjs verification key into
// the on-chain hex-compressed-point representation, so it can be compared
// for equality against a value fetched from a node's Groth16VerificationKey
// resource to decide whether the "new" proving setup lane is active.
func (vk SnarkJsGroth16VerificationKey) TryAsOnchainRepr() (OnChainGroth16VerificationKey, error) {
	alphaX, err := fqFromDecimal(vk.VkAlpha1[0])
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("alpha_g1: %w", err)
	}
	alphaY, err := fqFromDecimal(vk.VkAlpha1[1])
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("alpha_g1: %w", err)
	}
	alphaZ, err := fqFromDecimal(vk.VkAlpha1[2])
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("alpha_g1: %w", err)
	}
	alphaG1, err := jacobianToAffineG1(alphaX, alphaY, alphaZ)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("alpha_g1 re-encoding: %w", err)
	}

	betaG2, err := g2FromRepr(vk.VkBeta2)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("beta_g2: %w", err)
	}
	deltaG2, err := g2FromRepr(vk.VkDelta2)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("delta_g2: %w", err)
	}
	gammaG2, err := g2FromRepr(vk.VkGamma2)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("gamma_g2: %w", err)
	}

	if len(vk.IC) < 2 {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("expected at least 2 IC entries, got %d", len(vk.IC))
	}
	ic0x, err := fqFromDecimal(vk.IC[0][0])
	if err != nil {
		return OnChainGroth16VerificationKey{}, err
	}
	ic0y, err := fqFromDecimal(vk.IC[0][1])
	if err != nil {
		return OnChainGroth16VerificationKey{}, err
	}
	ic0z, err := fqFromDecimal(vk.IC[0][2])
	if err != nil {
		return OnChainGroth16VerificationKey{}, err
	}
	ic0, err := jacobianToAffineG1(ic0x, ic0y, ic0z)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("gamma_abc_g1[0]: %w", err)
	}

	ic1x, err := fqFromDecimal(vk.IC[1][0])
	if err != nil {
		return OnChainGroth16VerificationKey{}, err
	}
	ic1y, err := fqFromDecimal(vk.IC[1][1])
	if err != nil {
		return OnChainGroth16VerificationKey{}, err
	}
	ic1z, err := fqFromDecimal(vk.IC[1][2])
	if err != nil {
		return OnChainGroth16VerificationKey{}, err
	}
	ic1, err := jacobianToAffineG1(ic1x, ic1y, ic1z)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("gamma_abc_g1[1]: %w", err)
	}

	return OnChainGroth16VerificationKey{
		Type: "0x1::keyless_account::Groth16VerificationKey",
		Data: VKeyData{
			AlphaG1:    hexPoint(alphaG1),
			BetaG2:     hexPoint(betaG2),
			DeltaG2:    hexPoint(deltaG2),
			GammaAbcG1: []string{hexPoint(ic0), hexPoint(ic1)},
			GammaG2:    hexPoint(gammaG2),
		},
	}, nil
}

func g2FromRepr(repr [3][2]string) ([]byte, error) {
	x0, err := fqFromDecimal(repr[0][0])
	if err != nil {
		return nil, err
	}
	x1, err := fqFromDecimal(repr[0][1])
	if err != nil {
		return nil, err
	}
	y0, err := fqFromDecimal(repr[1][0])
	if err != nil {
		return nil, err
	}
	y1, err := fqFromDecimal(repr[1][1])
	if err != nil {
		return nil, err
	}
	z0, err := fqFromDecimal(repr[2][0])
	if err != nil {
		return nil, err
	}
	z1, err := fqFromDecimal(repr[2][1])
	if err != nil {
		return nil, err
	}
	return jacobianToAffineG2(x0, x1, y0, y1, z0, z1)
}
