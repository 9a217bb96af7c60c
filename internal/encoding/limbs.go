package encoding

import "math/big"

// BytesToU64LimbsLE interprets b as a big-endian unsigned integer and
// returns its value as little-endian 64-bit limbs (limb 0 is the least
// significant), zero-padded up to numLimbs. Used for the RSA signature and
// modulus signals, which the circuit consumes as fixed-width limb vectors.
func BytesToU64LimbsLE(b []byte, numLimbs int) []uint64 {
	n := new(big.Int).SetBytes(b)
	out := make([]uint64, numLimbs)
	mask := new(big.Int).SetUint64(^uint64(0))
	tmp := new(big.Int).Set(n)
	word := new(big.Int)
	for i := 0; i < numLimbs; i++ {
		word.And(tmp, mask)
		out[i] = word.Uint64()
		tmp.Rsh(tmp, 64)
	}
	return out
}
