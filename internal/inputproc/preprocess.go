package inputproc

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zkprover/keyless-prover/internal/apperror"
	"github.com/zkprover/keyless-prover/internal/encoding"
	"github.com/zkprover/keyless-prover/internal/jwkcache"
)

// DecodedJwt is the parsed (header, payload) pair produced while resolving
// the JWK for a request, kept alongside the raw parts so later stages
// don't re-decode.
type DecodedJwt struct {
	Parts          encoding.JwtParts
	Header         encoding.JwtHeader
	Payload        encoding.JwtPayload
	PayloadDecoded string
}

// DecodeJwt splits and JSON-decodes a base64url-encoded JWT.
func DecodeJwt(jwtB64 string) (DecodedJwt, error) {
	parts, err := encoding.FromB64(jwtB64)
	if err != nil {
		return DecodedJwt{}, apperror.BadRequest(err)
	}

	headerDecoded, err := parts.HeaderDecoded()
	if err != nil {
		return DecodedJwt{}, apperror.BadRequest(err)
	}
	var header encoding.JwtHeader
	if err := json.Unmarshal([]byte(headerDecoded), &header); err != nil {
		return DecodedJwt{}, apperror.BadRequest(fmt.Errorf("parsing jwt header: %w", err))
	}

	payloadDecoded, err := parts.PayloadDecoded()
	if err != nil {
		return DecodedJwt{}, apperror.BadRequest(err)
	}
	var payload encoding.JwtPayload
	if err := json.Unmarshal([]byte(payloadDecoded), &payload); err != nil {
		return DecodedJwt{}, apperror.BadRequest(fmt.Errorf("parsing jwt payload: %w", err))
	}

	return DecodedJwt{Parts: parts, Header: header, Payload: payload, PayloadDecoded: payloadDecoded}, nil
}

// DecodeAndAddJwk builds a full Input from a RequestInput and an optional
// JWK override (federated or insecure-test-jwk), resolving against the
// configured-issuer cache otherwise.
func DecodeAndAddJwk(rqi RequestInput, maybeJwk *jwkcache.RSAJWK, cache *jwkcache.Cache) (*Input, error) {
	decoded, err := DecodeJwt(rqi.JwtB64)
	if err != nil {
		return nil, err
	}

	jwk := maybeJwk
	if jwk == nil {
		jwk, err = cache.CachedDecodingKey(decoded.Payload.Iss, decoded.Header.Kid)
		if err != nil {
			return nil, apperror.BadRequest(fmt.Errorf("request has a JWT with an unrecognized JWK: %w", err))
		}
	}

	epk, err := decodeEPK(rqi.EPKHex)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Errorf("decoding epk: %w", err))
	}

	epkBlinderBytes, err := decodeHexOrB64(rqi.EPKBlinderHex)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Errorf("decoding epk_blinder: %w", err))
	}
	pepperBytes, err := decodeHexOrB64(rqi.PepperHex)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Errorf("decoding pepper: %w", err))
	}

	return &Input{
		JwtB64:         rqi.JwtB64,
		Jwk:            jwk,
		EPK:            epk,
		EPKBlinderFr:   encoding.FrFromLEBytesModOrder(epkBlinderBytes),
		ExpDateSecs:    rqi.ExpDateSecs,
		PepperFr:       encoding.FrFromLEBytesModOrder(pepperBytes),
		UidKey:         rqi.UidKey,
		ExtraField:     rqi.ExtraField,
		ExpHorizonSecs: rqi.ExpHorizonSecs,
		IdcAud:         rqi.IdcAud,
	}, nil
}

// decodeEPK accepts a "0x..."-prefixed hex string, a raw hex string, or
// (when the input is not valid hex) an unpadded base64url string for the
// BCS-encoded ephemeral public key bytes (for Ed25519: variant index,
// length byte, 32-byte key).
func decodeEPK(s string) ([]byte, error) {
	return decodeHexOrB64(s)
}

func decodeHexOrB64(s string) ([]byte, error) {
	if b, err := hex.DecodeString(trimHexPrefix(s)); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
