package inputproc

import (
	"fmt"

	"github.com/zkprover/keyless-prover/internal/fieldparser"
	"github.com/zkprover/keyless-prover/internal/signals"
)

var stringBodyFields = map[string]bool{
	"nonce": true,
	"iss":   true,
	"aud":   true,
	"uid":   true,
}

// FieldCheckInputSignals assembles the "field-check" signal group: iss,
// nonce, iat, uid (keyed by input.UidKey), extra, ev (email_verified), and
// aud — grounded on field_check_input.rs's field_check_input_signals.
func FieldCheckInputSignals(in *Input, payloadDecoded string) (*signals.Builder, error) {
	result := signals.New()

	for _, name := range []string{"iss", "nonce", "iat"} {
		group, err := signalsForField(payloadDecoded, name, name)
		if err != nil {
			return nil, err
		}
		if result, err = result.Merge(group); err != nil {
			return nil, err
		}
	}

	uidGroup, err := signalsForFieldWithKey(payloadDecoded, "uid", in.UidKey)
	if err != nil {
		return nil, err
	}
	if result, err = result.Merge(uidGroup); err != nil {
		return nil, err
	}

	extraGroup, err := extraFieldSignals(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	if result, err = result.Merge(extraGroup); err != nil {
		return nil, err
	}

	evGroup, err := emailVerifiedSignals(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	if result, err = result.Merge(evGroup); err != nil {
		return nil, err
	}

	audGroup, err := audSignals(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	if result, err = result.Merge(audGroup); err != nil {
		return nil, err
	}

	return result, nil
}

func wholeFieldSignals(pf fieldparser.ParsedField, name string) *signals.Builder {
	b := signals.New().
		StrInput(name+"_field", pf.WholeField).
		UsizeInput(name+"_field_len", len(pf.WholeField)).
		UsizeInput(name+"_index", pf.Index)

	if stringBodyFields[name] {
		b = b.BoolsInput(name+"_field_string_bodies", fieldparser.StringBodies(pf.WholeField))
	}
	return b
}

func fieldComponentsSignals(pf fieldparser.ParsedField, name string) *signals.Builder {
	return signals.New().
		UsizeInput(name+"_colon_index", pf.ColonIndex).
		StrInput(name+"_name", pf.Key).
		UsizeInput(name+"_value_index", pf.ValueIndex).
		UsizeInput(name+"_value_len", len(pf.Value)).
		StrInput(name+"_value", pf.Value)
}

func signalsForField(payloadDecoded, name, jwtKey string) (*signals.Builder, error) {
	pf, err := fieldparser.Find(payloadDecoded, jwtKey)
	if err != nil {
		return nil, err
	}
	return wholeFieldSignals(pf, name).Merge(fieldComponentsSignals(pf, name))
}

func signalsForFieldWithKey(payloadDecoded, name, keyInJwt string) (*signals.Builder, error) {
	pf, err := fieldparser.Find(payloadDecoded, keyInJwt)
	if err != nil {
		return nil, err
	}
	result, err := wholeFieldSignals(pf, name).Merge(fieldComponentsSignals(pf, name))
	if err != nil {
		return nil, err
	}
	return result.UsizeInput(name+"_name_len", len(keyInJwt)), nil
}

func privateAudValue(in *Input, payloadDecoded string) (string, error) {
	if in.IdcAud != nil {
		return *in.IdcAud, nil
	}
	pf, err := fieldparser.Find(payloadDecoded, "aud")
	if err != nil {
		return "", err
	}
	return pf.Value, nil
}

func overrideAudValue(in *Input, payloadDecoded string) (string, error) {
	if in.IdcAud == nil {
		return "", nil
	}
	pf, err := fieldparser.Find(payloadDecoded, "aud")
	if err != nil {
		return "", err
	}
	return pf.Value, nil
}

func audSignals(in *Input, payloadDecoded string) (*signals.Builder, error) {
	pf, err := fieldparser.Find(payloadDecoded, "aud")
	if err != nil {
		return nil, err
	}

	priv, err := privateAudValue(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	override, err := overrideAudValue(in, payloadDecoded)
	if err != nil {
		return nil, err
	}

	result := wholeFieldSignals(pf, "aud").
		UsizeInput("aud_colon_index", pf.ColonIndex).
		StrInput("aud_name", pf.Key).
		UsizeInput("aud_value_index", pf.ValueIndex).
		UsizeInput("private_aud_value_len", len(priv)).
		StrInput("private_aud_value", priv).
		UsizeInput("override_aud_value_len", len(override)).
		StrInput("override_aud_value", override).
		BoolInput("use_aud_override", in.IdcAud != nil)

	return result, nil
}

func emailVerifiedFieldDefault() fieldparser.ParsedField {
	return fieldparser.ParsedField{
		Index: 1, Key: "email_verified", Value: "true",
		ColonIndex: 16, ValueIndex: 17, WholeField: `"email_verified":true,`,
	}
}

func extraFieldDefault() fieldparser.ParsedField {
	return fieldparser.ParsedField{Index: 1, Key: "", Value: "", ColonIndex: 0, ValueIndex: 0, WholeField: " "}
}

func parsedEmailVerifiedOrDefault(in *Input, payloadDecoded string) (fieldparser.ParsedField, error) {
	if in.UidKey == "email" {
		return fieldparser.Find(payloadDecoded, "email_verified")
	}
	return emailVerifiedFieldDefault(), nil
}

func parsedExtraOrDefault(in *Input, payloadDecoded string) (fieldparser.ParsedField, error) {
	if in.ExtraField != nil {
		return fieldparser.Find(payloadDecoded, *in.ExtraField)
	}
	return extraFieldDefault(), nil
}

func emailVerifiedSignals(in *Input, payloadDecoded string) (*signals.Builder, error) {
	pf, err := parsedEmailVerifiedOrDefault(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	return wholeFieldSignals(pf, "ev").Merge(fieldComponentsSignals(pf, "ev"))
}

func extraFieldSignals(in *Input, payloadDecoded string) (*signals.Builder, error) {
	pf, err := parsedExtraOrDefault(in, payloadDecoded)
	if err != nil {
		return nil, err
	}
	return signals.New().Merge(wholeFieldSignals(pf, "extra"))
}

// ValidateJWTPayloadParsing is the C4 cross-check: the field parser's view
// of uid/aud must agree with a standard JSON decode of the same payload.
func ValidateJWTPayloadParsing(in *Input, payloadDecoded string, sub, email, aud *string) error {
	parsedUid, err := fieldparser.Find(payloadDecoded, in.UidKey)
	if err != nil {
		return err
	}

	switch in.UidKey {
	case "email":
		if email == nil || parsedUid.Value != *email {
			return fmt.Errorf(`circuit is parsing the "email" field incorrectly`)
		}
	case "sub":
		if sub == nil || parsedUid.Value != *sub {
			return fmt.Errorf(`circuit is parsing the "sub" field incorrectly`)
		}
	default:
		return fmt.Errorf("unrecognized uid key")
	}

	parsedAud, err := fieldparser.Find(payloadDecoded, "aud")
	if err != nil {
		return err
	}
	if aud == nil || parsedAud.Value != *aud {
		return fmt.Errorf(`circuit is parsing the "aud" field incorrectly`)
	}

	return nil
}
