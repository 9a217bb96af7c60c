package encoding

import "encoding/binary"

// WithShaPaddingBytes returns `M || 0x80 || 0x00^k || be_u64(bitlen(M))`
// where k is chosen so the total length is a multiple of 64 bytes (P2).
func WithShaPaddingBytes(m []byte) []byte {
	bitLen := uint64(len(m)) * 8

	out := make([]byte, 0, len(m)+72)
	out = append(out, m...)
	out = append(out, 0x80)

	// Pad with zero bytes until len(out)+8 is a multiple of 64.
	for (len(out)+8)%64 != 0 {
		out = append(out, 0x00)
	}

	var lenBytes [8]byte
	binary.BigEndian.PutUint64(lenBytes[:], bitLen)
	out = append(out, lenBytes[:]...)

	return out
}

// PaddingWithoutLen returns the `0x80 || 0x00^k` middle section only, as an
// ASCII "0"/"1" bitstring.
func PaddingWithoutLen(m []byte) string {
	padded := WithShaPaddingBytes(m)
	withoutLen := padded[len(m) : len(padded)-8]
	return bytesToBitString(withoutLen)
}

// JwtBitLenBinary returns the `be_u64(bitlen(M))` tail as an ASCII "0"/"1"
// string of length 64.
func JwtBitLenBinary(m []byte) string {
	padded := WithShaPaddingBytes(m)
	lenBytes := padded[len(padded)-8:]
	return bytesToBitString(lenBytes)
}

// NumSha2Blocks returns total_bytes*8/512 for the SHA-2-padded form of m.
func NumSha2Blocks(m []byte) int {
	return len(WithShaPaddingBytes(m)) * 8 / 512
}

func bytesToBitString(b []byte) string {
	out := make([]byte, 0, len(b)*8)
	for _, by := range b {
		for bit := 7; bit >= 0; bit-- {
			if (by>>uint(bit))&1 == 1 {
				out = append(out, '1')
			} else {
				out = append(out, '0')
			}
		}
	}
	return string(out)
}

// ZeroOneBytes converts an ASCII "0"/"1" string into a byte vector whose
// entries are the literal values 0 or 1 (one per bit) — the form the
// circuit consumes a bitstream signal in, as opposed to the ASCII
// character codes.
func ZeroOneBytes(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '1' {
			out[i] = 1
		}
	}
	return out
}

// BitStringToBytes packs an ASCII "0"/"1" string (length a multiple of 8)
// back into bytes, MSB-first per byte.
func BitStringToBytes(s string) []byte {
	out := make([]byte, len(s)/8)
	for i := 0; i < len(out); i++ {
		var b byte
		for bit := 0; bit < 8; bit++ {
			b <<= 1
			if s[i*8+bit] == '1' {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

// PayloadWithPadding extracts the padded-payload region from the SHA-2
// padded unsigned JWT: the bytes after the "header_b64." prefix, including
// the padding region that followed it.
func PayloadWithPadding(unsignedWithPadding []byte, headerUndecodedWithDot string) []byte {
	return unsignedWithPadding[len(headerUndecodedWithDot):]
}
