package inputproc

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/zkprover/keyless-prover/internal/encoding"
	"github.com/zkprover/keyless-prover/internal/fieldparser"
)

// PoseidonHash is a 32-byte little-endian encoding of a BN254 scalar,
// mirroring the original service's PoseidonHash wrapper type.
type PoseidonHash [32]byte

// TryFromFr renders fr as its little-endian 32-byte representation.
func TryFromFr(fr *big.Int) PoseidonHash {
	var out PoseidonHash
	b := fr.Bytes() // big-endian
	for i, bb := range b {
		out[len(b)-1-i] = bb
	}
	return out
}

// ComputeTempPubkeyFrs packs the request's ephemeral public key into the
// fixed-width `temp_pubkey` scalar vector, returning the 3 packed scalars
// and the true unpadded byte length as its own scalar.
func ComputeTempPubkeyFrs(in *Input, maxCommitedEpkBytes int) (frs []*big.Int, length *big.Int, err error) {
	packed, err := encoding.PackBytesToScalars(in.EPK, maxCommitedEpkBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("packing temp_pubkey: %w", err)
	}
	return packed[:len(packed)-1], packed[len(packed)-1], nil
}

func hashValueBytes(value string, maxBytes int) (*big.Int, error) {
	scalars, err := encoding.PackBytesToScalars([]byte(value), maxBytes)
	if err != nil {
		return nil, err
	}
	return encoding.HashScalars(scalars)
}

func jwkModulusHash(n string) (*big.Int, error) {
	// The JWK modulus is hashed the same way temp_pubkey is: pack the raw
	// (base64url-decoded) modulus bytes, then Poseidon-hash the resulting
	// scalar vector.
	decoded, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decoding jwk modulus: %w", err)
	}
	scalars, err := encoding.PackBytesToScalars(decoded, 256) // 2048-bit RSA modulus max
	if err != nil {
		return nil, err
	}
	return encoding.HashScalars(scalars)
}

// ComputePublicInputsHash Poseidon-hashes the fixed-order component vector
// named in spec.md §4.4 step 5 / SPEC_FULL.md §4.
func ComputePublicInputsHash(in *Input, cfg PaddingConfig, payloadDecoded string) (*big.Int, error) {
	maxCommitedEpkBytes := cfg.MaxLengths["temp_pubkey"] * encoding.BytesPackedPerScalar
	if maxCommitedEpkBytes == 0 {
		maxCommitedEpkBytes = 93
	}

	tempPubkeyFrs, tempPubkeyLen, err := ComputeTempPubkeyFrs(in, maxCommitedEpkBytes)
	if err != nil {
		return nil, err
	}

	issField, err := fieldparser.Find(payloadDecoded, "iss")
	if err != nil {
		return nil, err
	}
	issValueHash, err := hashValueBytes(issField.Value, cfg.lengthOr("iss_field", 150))
	if err != nil {
		return nil, err
	}

	overrideAud, err := overrideAudValue(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	audOverrideHash, err := hashValueBytes(overrideAud, cfg.lengthOr("override_aud_value", 120))
	if err != nil {
		return nil, err
	}

	uidKeyHash, err := hashValueBytes(in.UidKey, 8)
	if err != nil {
		return nil, err
	}

	uidField, err := fieldparser.Find(payloadDecoded, in.UidKey)
	if err != nil {
		return nil, err
	}
	uidValueHash, err := hashValueBytes(uidField.Value, cfg.lengthOr("uid_field", 350))
	if err != nil {
		return nil, err
	}

	extraPf, err := parsedExtraOrDefault(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	extraFieldHash, err := hashValueBytes(extraPf.Value, cfg.lengthOr("extra_field", 400))
	if err != nil {
		return nil, err
	}

	jwkModHash, err := jwkModulusHash(in.Jwk.N)
	if err != nil {
		return nil, err
	}

	useExtraField := big.NewInt(0)
	if in.UseExtraField() {
		useExtraField = big.NewInt(1)
	}

	components := make([]*big.Int, 0, 13)
	components = append(components, tempPubkeyFrs...)
	components = append(components,
		tempPubkeyLen,
		in.EPKBlinderFr,
		in.PepperFr,
		new(big.Int).SetUint64(in.ExpDateSecs),
		new(big.Int).SetUint64(in.ExpHorizonSecs),
		useExtraField,
		issValueHash,
		audOverrideHash,
		uidKeyHash,
		uidValueHash,
		extraFieldHash,
		jwkModHash,
	)

	return encoding.HashScalars(components)
}

func (cfg PaddingConfig) lengthOr(name string, fallback int) int {
	if cfg.MaxLengths == nil {
		return fallback
	}
	if v, ok := cfg.MaxLengths[name]; ok {
		return v
	}
	return fallback
}

