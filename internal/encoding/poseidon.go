package encoding

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// BytesPackedPerScalar is the fixed byte-packing width per BN254 field
// element used by the Poseidon packing scheme (31 bytes keeps every chunk
// strictly below the ~254-bit field order with no reduction needed).
const BytesPackedPerScalar = 31

// PackBytesToScalars zero-pads b up to maxBytes, splits it into
// ceil(maxBytes/BytesPackedPerScalar) little-endian BN254 scalars, and
// appends one further scalar equal to len(b) — the *original*, unpadded
// byte length. This is used for both the `temp_pubkey` signal and the
// per-field value hashes folded into the public inputs hash.
func PackBytesToScalars(b []byte, maxBytes int) ([]*big.Int, error) {
	if len(b) > maxBytes {
		return nil, fmt.Errorf("input of %d bytes exceeds max length %d", len(b), maxBytes)
	}

	padded := make([]byte, maxBytes)
	copy(padded, b)

	numScalars := (maxBytes + BytesPackedPerScalar - 1) / BytesPackedPerScalar
	out := make([]*big.Int, 0, numScalars+1)
	for i := 0; i < numScalars; i++ {
		start := i * BytesPackedPerScalar
		end := start + BytesPackedPerScalar
		if end > maxBytes {
			end = maxBytes
		}
		out = append(out, leBytesToInt(padded[start:end]))
	}
	out = append(out, big.NewInt(int64(len(b))))

	return out, nil
}

func leBytesToInt(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(rev)
}

// HashScalars Poseidon-hashes a vector of BN254 scalars, circomlib-compatible.
func HashScalars(values []*big.Int) (*big.Int, error) {
	return poseidon.Hash(values)
}

// FrFromHex parses a hex string to bytes, interprets them little-endian,
// and reduces modulo the BN254 scalar field order.
func FrFromHex(s string) (*big.Int, error) {
	b, err := hexDecode(s)
	if err != nil {
		return nil, err
	}
	var e bn254fr.Element
	e.SetBytes(reverseBytes(b))
	return e.BigInt(new(big.Int)), nil
}

// FrFromLEBytesModOrder interprets b as a little-endian integer reduced
// modulo the BN254 scalar field order.
func FrFromLEBytesModOrder(b []byte) *big.Int {
	var e bn254fr.Element
	e.SetBytes(reverseBytes(b))
	return e.BigInt(new(big.Int))
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func hexDecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
