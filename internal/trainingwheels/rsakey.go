package trainingwheels

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// rsaPublicKeyFromComponents builds an *rsa.PublicKey from base64url-encoded
// modulus (n) and exponent (e) JWK components.
func rsaPublicKeyFromComponents(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decoding jwk n: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("decoding jwk e: %w", err)
	}

	eInt := new(big.Int).SetBytes(eBytes)

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(eInt.Int64()),
	}, nil
}
