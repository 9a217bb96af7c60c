package inputproc

import (
	"encoding/base64"
	"fmt"

	"github.com/zkprover/keyless-prover/internal/encoding"
	"github.com/zkprover/keyless-prover/internal/signals"
)

// NumLimbs is the fixed RSA limb-vector width (2048-bit modulus / 64 bits
// per limb).
const NumLimbs = 32

// DeriveCircuitInputSignals composes C1–C3 into the full padded signal map
// plus the public inputs hash, reproducing the exact global-signal order
// from the original `derive_circuit_input_signals`.
func DeriveCircuitInputSignals(in *Input, cfg PaddingConfig) (*signals.Padded, PoseidonHash, error) {
	decoded, err := DecodeJwt(in.JwtB64)
	if err != nil {
		return nil, PoseidonHash{}, err
	}

	unsignedUndecoded := decoded.Parts.UnsignedUndecoded()
	unsignedWithPadding := encoding.WithShaPaddingBytes(unsignedUndecoded)

	signatureBytes, err := decoded.Parts.Signature()
	if err != nil {
		return nil, PoseidonHash{}, fmt.Errorf("decoding signature: %w", err)
	}

	modulusBytes, err := base64.RawURLEncoding.DecodeString(in.Jwk.N)
	if err != nil {
		return nil, PoseidonHash{}, fmt.Errorf("decoding jwk modulus: %w", err)
	}

	publicInputsHashFr, err := ComputePublicInputsHash(in, cfg, decoded.PayloadDecoded)
	if err != nil {
		return nil, PoseidonHash{}, fmt.Errorf("computing public inputs hash: %w", err)
	}

	maxCommitedEpkBytes := cfg.MaxLengths["temp_pubkey"] * encoding.BytesPackedPerScalar
	if maxCommitedEpkBytes == 0 {
		maxCommitedEpkBytes = 93
	}
	tempPubkeyFrs, tempPubkeyLen, err := ComputeTempPubkeyFrs(in, maxCommitedEpkBytes)
	if err != nil {
		return nil, PoseidonHash{}, err
	}

	payloadWithPadding := encoding.PayloadWithPadding(unsignedWithPadding, decoded.Parts.HeaderUndecodedWithDot())

	builder := signals.New().
		BytesInput("jwt", unsignedWithPadding).
		StrInput("jwt_header_with_separator", decoded.Parts.HeaderUndecodedWithDot()).
		BytesInput("jwt_payload", payloadWithPadding).
		StrInput("jwt_payload_without_sha_padding", decoded.Parts.PayloadUndecoded()).
		UsizeInput("header_len_with_separator", len(decoded.Parts.HeaderUndecodedWithDot())).
		UsizeInput("b64_payload_len", len(decoded.Parts.PayloadUndecoded())).
		UsizeInput("jwt_num_sha2_blocks", encoding.NumSha2Blocks(unsignedUndecoded)).
		BytesInput("jwt_len_bit_encoded", encoding.ZeroOneBytes(encoding.JwtBitLenBinary(unsignedUndecoded))).
		BytesInput("padding_without_len", encoding.ZeroOneBytes(encoding.PaddingWithoutLen(unsignedUndecoded))).
		LimbsInput("signature", encoding.BytesToU64LimbsLE(signatureBytes, NumLimbs)).
		LimbsInput("pubkey_modulus", encoding.BytesToU64LimbsLE(modulusBytes, NumLimbs)).
		U64Input("exp_date", in.ExpDateSecs).
		U64Input("exp_delta", in.ExpHorizonSecs).
		FrsInput("temp_pubkey", tempPubkeyFrs).
		FrInput("temp_pubkey_len", tempPubkeyLen).
		FrInput("jwt_randomness", in.EPKBlinderFr).
		FrInput("pepper", in.PepperFr).
		BoolInput("use_extra_field", in.UseExtraField()).
		FrInput("public_inputs_hash", publicInputsHashFr)

	fieldSignals, err := FieldCheckInputSignals(in, decoded.PayloadDecoded)
	if err != nil {
		return nil, PoseidonHash{}, err
	}
	merged, err := builder.Merge(fieldSignals)
	if err != nil {
		return nil, PoseidonHash{}, err
	}

	padded, err := merged.Pad(signals.PaddingConfig{MaxLengths: cfg.MaxLengths})
	if err != nil {
		return nil, PoseidonHash{}, fmt.Errorf("padding circuit input signals: %w", err)
	}

	return padded, TryFromFr(publicInputsHashFr), nil
}
