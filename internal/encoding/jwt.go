// Package encoding provides the low-level byte-manipulation primitives used
// to turn an opaque JWT into circuit-ready bitstreams: base64url/hex
// splitting, SHA-2 padding construction, and Poseidon-scalar packing.
package encoding

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// JwtParts is the immutable triple (header_b64, payload_b64, signature_b64).
// Concatenating the three with "." reproduces the original token (P1).
type JwtParts struct {
	HeaderB64    string
	PayloadB64   string
	SignatureB64 string
}

// FromB64 splits a compact-serialized JWT into its three base64url parts.
func FromB64(s string) (JwtParts, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return JwtParts{}, fmt.Errorf("malformed jwt: expected 3 dot-separated parts, got %d", len(parts))
	}
	return JwtParts{HeaderB64: parts[0], PayloadB64: parts[1], SignatureB64: parts[2]}, nil
}

// Join reproduces the original compact serialization (P1).
func (j JwtParts) Join() string {
	return j.HeaderB64 + "." + j.PayloadB64 + "." + j.SignatureB64
}

func decodeB64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed base64url: %w", err)
	}
	return b, nil
}

// HeaderDecoded base64url+UTF-8 decodes the header segment.
func (j JwtParts) HeaderDecoded() (string, error) {
	b, err := decodeB64URL(j.HeaderB64)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PayloadDecoded base64url+UTF-8 decodes the payload segment.
func (j JwtParts) PayloadDecoded() (string, error) {
	b, err := decodeB64URL(j.PayloadB64)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Signature decodes the third segment to raw signature bytes.
func (j JwtParts) Signature() ([]byte, error) {
	return decodeB64URL(j.SignatureB64)
}

// UnsignedUndecoded is `header_b64 || "." || payload_b64` as ASCII bytes —
// the exact bytes that were RS256-signed.
func (j JwtParts) UnsignedUndecoded() []byte {
	return []byte(j.HeaderB64 + "." + j.PayloadB64)
}

// HeaderUndecodedWithDot is `header_b64 || "."`.
func (j JwtParts) HeaderUndecodedWithDot() string {
	return j.HeaderB64 + "."
}

// PayloadUndecoded is the raw (still base64url-encoded) payload segment.
func (j JwtParts) PayloadUndecoded() string {
	return j.PayloadB64
}

// JwtHeader is the subset of JWT header claims this service inspects.
type JwtHeader struct {
	Kid string `json:"kid"`
	Alg string `json:"alg"`
}

// JwtPayload is the subset of JWT payload claims this service inspects.
type JwtPayload struct {
	Iss           string  `json:"iss"`
	Aud           *string `json:"aud"`
	Sub           *string `json:"sub"`
	Email         *string `json:"email"`
	EmailVerified *any    `json:"email_verified"`
	Iat           uint64  `json:"iat"`
	Exp           uint64  `json:"exp"`
	Nonce         string  `json:"nonce"`
}
