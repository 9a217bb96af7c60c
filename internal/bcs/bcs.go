// Package bcs implements the minimal slice of Binary Canonical Serialization
// needed to encode the "ephemeral signature" envelope returned to clients:
// a ULEB128 enum-variant index followed by a ULEB128-length-prefixed byte
// string. No pack library implements BCS (it is Aptos-specific), so this is
// a narrowly-scoped hand-rolled encoder rather than a general-purpose one.
package bcs

// Ed25519Variant is the BCS enum-variant index for the Ed25519 case of
// both EphemeralPublicKey and EphemeralSignature.
const Ed25519Variant uint32 = 0

// EncodeUleb128 appends x encoded as ULEB128 to dst and returns the result.
func EncodeUleb128(dst []byte, x uint32) []byte {
	for {
		b := byte(x & 0x7f)
		x >>= 7
		if x != 0 {
			dst = append(dst, b|0x80)
		} else {
			dst = append(dst, b)
			return dst
		}
	}
}

// EncodeBytes BCS-encodes a byte vector: ULEB128 length followed by the
// raw bytes.
func EncodeBytes(dst []byte, b []byte) []byte {
	dst = EncodeUleb128(dst, uint32(len(b)))
	return append(dst, b...)
}

// EncodeEnumVariantBytes encodes `Enum::Variant(bytes)` as BCS does for a
// single-field tuple-variant: the variant index, then the field's own BCS
// encoding.
func EncodeEnumVariantBytes(variant uint32, b []byte) []byte {
	out := EncodeUleb128(nil, variant)
	return EncodeBytes(out, b)
}
