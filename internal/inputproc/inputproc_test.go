package inputproc

import (
	"strings"
	"testing"

	"github.com/zkprover/keyless-prover/internal/signals"
)

func TestFieldCheckInputSignalsProducesExpectedNames(t *testing.T) {
	payload := `{"iss":"test.oidc.provider","aud":"client-id","sub":"113990307082899718775","email":"michael@aptoslabs.com","email_verified":true,"iat":0,"nonce":"123"}`

	in := &Input{UidKey: "email"}
	result, err := FieldCheckInputSignals(in, payload)
	if err != nil {
		t.Fatalf("FieldCheckInputSignals: %v", err)
	}

	padded, err := result.Pad(signals.PaddingConfig{MaxLengths: map[string]int{}})
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}

	names := padded.Names()
	want := []string{"iss_field", "nonce_field", "iat_field", "uid_field", "uid_name_len", "ev_field", "aud_field", "use_aud_override"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing expected signal %q in %v", w, names)
		}
	}
}

func TestFieldCheckInputSignalsDefaultsEmailVerifiedForSubUid(t *testing.T) {
	payload := `{"iss":"test.oidc.provider","aud":"client-id","sub":"113990307082899718775","iat":0,"nonce":"123"}`

	in := &Input{UidKey: "sub"}
	result, err := FieldCheckInputSignals(in, payload)
	if err != nil {
		t.Fatalf("FieldCheckInputSignals: %v", err)
	}

	padded, err := result.Pad(signals.PaddingConfig{MaxLengths: map[string]int{}})
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}

	v, ok := padded.Get("ev_value")
	if !ok {
		t.Fatalf("ev_value signal missing")
	}
	if strings.TrimRight(string(v.Bytes), "\x00") != "true" {
		t.Fatalf("ev_value = %q, want true", v.Bytes)
	}
}

func TestValidateJWTPayloadParsingDetectsMismatch(t *testing.T) {
	payload := `{"iss":"test.oidc.provider","aud":"client-id","sub":"113990307082899718775"}`
	in := &Input{UidKey: "sub"}

	sub := "different-subject"
	aud := "client-id"
	if err := ValidateJWTPayloadParsing(in, payload, &sub, nil, &aud); err == nil {
		t.Fatal("expected mismatch error for differing sub values")
	}
}

func TestValidateJWTPayloadParsingAcceptsMatchingValues(t *testing.T) {
	payload := `{"iss":"test.oidc.provider","aud":"client-id","sub":"113990307082899718775"}`
	in := &Input{UidKey: "sub"}

	sub := "113990307082899718775"
	aud := "client-id"
	if err := ValidateJWTPayloadParsing(in, payload, &sub, nil, &aud); err != nil {
		t.Fatalf("ValidateJWTPayloadParsing: %v", err)
	}
}
