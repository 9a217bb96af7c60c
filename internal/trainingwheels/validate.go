package trainingwheels

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zkprover/keyless-prover/internal/apperror"
	"github.com/zkprover/keyless-prover/internal/fieldparser"
	"github.com/zkprover/keyless-prover/internal/inputproc"
	"github.com/zkprover/keyless-prover/internal/jwkcache"
)

// CheckNonceConsistency is the C4 nonce cross-check: recomputes the nonce
// from epk/blinder/exp_date and asserts it matches the JWT's own nonce
// claim, failing BAD_REQUEST on mismatch.
func CheckNonceConsistency(in *inputproc.Input, maxCommitedEpkBytes int) error {
	decoded, err := inputproc.DecodeJwt(in.JwtB64)
	if err != nil {
		return err
	}

	computed, err := ComputeNonce(in.ExpDateSecs, in.EPK, in.EPKBlinderFr, maxCommitedEpkBytes)
	if err != nil {
		return apperror.Internal(fmt.Errorf("computing nonce: %w", err))
	}

	if computed.String() != decoded.Payload.Nonce {
		return apperror.BadRequestf("Nonce in JWT is inconsistent with epk, epk_blinder, or expiration date")
	}
	return nil
}

// ValidateJwtSigAndDates verifies the RS256 signature against the resolved
// JWK and rejects an `iat` claim in the future. The JWT's own `exp` claim
// is deliberately never checked — enforcement of expiry lives entirely in
// exp_date_secs/exp_horizon_secs, consumed by the circuit. Do not add an
// exp check here.
func ValidateJwtSigAndDates(jwtB64 string, jwk *jwkcache.RSAJWK, disableIatInPastCheck bool) error {
	decodingKey, err := rsaPublicKeyFromComponents(jwk.N, jwk.E)
	if err != nil {
		return apperror.BadRequest(fmt.Errorf("constructing RSA key from jwk: %w", err))
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithoutClaimsValidation())
	token, err := parser.Parse(jwtB64, func(t *jwt.Token) (interface{}, error) {
		return decodingKey, nil
	})
	if err != nil || !token.Valid {
		return apperror.BadRequest(fmt.Errorf("jwt signature verification failed: %w", err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperror.BadRequestf("jwt claims have unexpected shape")
	}

	iat, _ := claims["iat"].(float64)

	if !disableIatInPastCheck && uint64(iat) > uint64(time.Now().Unix()) {
		return apperror.BadRequestf("submitted a request jwt which was issued in the future")
	}
	return nil
}

// ValidateJwtPayloadParsing is the C4 payload-parsing cross-check: the
// field-parser's view of uid/aud must agree with a standard JSON decode.
func ValidateJwtPayloadParsing(in *inputproc.Input) error {
	decoded, err := inputproc.DecodeJwt(in.JwtB64)
	if err != nil {
		return err
	}

	parsedUid, err := fieldparser.Find(decoded.PayloadDecoded, in.UidKey)
	if err != nil {
		return apperror.BadRequest(err)
	}

	switch in.UidKey {
	case "email":
		if decoded.Payload.Email == nil || parsedUid.Value != *decoded.Payload.Email {
			return apperror.BadRequestf(`circuit is parsing the "email" field incorrectly`)
		}
	case "sub":
		if decoded.Payload.Sub == nil || parsedUid.Value != *decoded.Payload.Sub {
			return apperror.BadRequestf(`circuit is parsing the "sub" field incorrectly`)
		}
	default:
		return apperror.BadRequestf("unrecognized uid key")
	}

	parsedAud, err := fieldparser.Find(decoded.PayloadDecoded, "aud")
	if err != nil {
		return apperror.BadRequest(err)
	}
	if decoded.Payload.Aud == nil || parsedAud.Value != *decoded.Payload.Aud {
		return apperror.BadRequestf(`circuit is parsing the "aud" field incorrectly`)
	}

	return nil
}
