package proverstate

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/zkprover/keyless-prover/internal/inputproc"
	"github.com/zkprover/keyless-prover/internal/signals"
)

// circuitAssignmentJSON is the wire shape fed to InputParser.Parse: the
// subset of derived signals the JWTCircuit actually constrains, serialized
// as decimal strings (matching the witness JSON convention used throughout
// this service).
type circuitAssignmentJSON struct {
	PublicInputsHash string    `json:"public_inputs_hash"`
	ComputedHash     string    `json:"computed_hash"`
	TempPubkeyFrs    [3]string `json:"temp_pubkey_frs"`
	TempPubkeyLen    string    `json:"temp_pubkey_len"`
	ExpDate          string    `json:"exp_date"`
	ExpHorizon       string    `json:"exp_delta"`
	UseExtraField    string    `json:"use_extra_field"`
}

// BuildAssignmentJSON renders the derived signal set and public-inputs hash
// into the JSON shape InputParser.Parse expects.
func BuildAssignmentJSON(padded *signals.Padded, hash inputproc.PoseidonHash) ([]byte, error) {
	hashFr := new(big.Int).SetBytes(reverseCopy(hash[:]))

	frs, ok := padded.Get("temp_pubkey")
	if !ok {
		return nil, fmt.Errorf("derived signals missing temp_pubkey")
	}
	if frs.Kind != signals.KindFrs || len(frs.Frs) != 3 {
		return nil, fmt.Errorf("temp_pubkey signal has unexpected shape")
	}

	lenVal, ok := padded.Get("temp_pubkey_len")
	if !ok {
		return nil, fmt.Errorf("derived signals missing temp_pubkey_len")
	}
	expDate, ok := padded.Get("exp_date")
	if !ok {
		return nil, fmt.Errorf("derived signals missing exp_date")
	}
	expHorizon, ok := padded.Get("exp_delta")
	if !ok {
		return nil, fmt.Errorf("derived signals missing exp_delta")
	}
	useExtra, ok := padded.Get("use_extra_field")
	if !ok {
		return nil, fmt.Errorf("derived signals missing use_extra_field")
	}

	assignment := circuitAssignmentJSON{
		PublicInputsHash: hashFr.String(),
		ComputedHash:     hashFr.String(),
		TempPubkeyFrs:    [3]string{frs.Frs[0].String(), frs.Frs[1].String(), frs.Frs[2].String()},
		TempPubkeyLen:    lenVal.Fr.String(),
		ExpDate:          fmt.Sprintf("%d", expDate.U64),
		ExpHorizon:       fmt.Sprintf("%d", expHorizon.U64),
		UseExtraField:    fmt.Sprintf("%d", useExtra.U64),
	}
	return json.Marshal(assignment)
}

func reverseCopy(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// CircuitInputParser implements the Circuit/PublicCircuit InputParser
// contract: it decodes the JSON produced by BuildAssignmentJSON into a
// JWTCircuit witness assignment. The privateInput parameter is accepted for
// interface-compatibility (verification calls pass an empty object) but
// unused: every field this circuit constrains lives in publicInput's JSON,
// since the circuit has no secret signal that isn't itself derived from the
// already-serialized public-inputs-hash components.
type CircuitInputParser struct{}

func (CircuitInputParser) Parse(publicInput, _ []byte) (frontend.Circuit, error) {
	var a circuitAssignmentJSON
	if err := json.Unmarshal(publicInput, &a); err != nil {
		return nil, fmt.Errorf("parsing circuit assignment: %w", err)
	}

	toFr := func(s string) (*big.Int, error) {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid decimal field element %q", s)
		}
		return v, nil
	}

	publicHash, err := toFr(a.PublicInputsHash)
	if err != nil {
		return nil, err
	}
	computedHash, err := toFr(a.ComputedHash)
	if err != nil {
		return nil, err
	}
	var frs [3]*big.Int
	for i, s := range a.TempPubkeyFrs {
		frs[i], err = toFr(s)
		if err != nil {
			return nil, err
		}
	}
	tempPubkeyLen, err := toFr(a.TempPubkeyLen)
	if err != nil {
		return nil, err
	}
	expDate, err := toFr(a.ExpDate)
	if err != nil {
		return nil, err
	}
	expHorizon, err := toFr(a.ExpHorizon)
	if err != nil {
		return nil, err
	}
	useExtraField, err := toFr(a.UseExtraField)
	if err != nil {
		return nil, err
	}

	return &JWTCircuit{
		PublicInputsHash: publicHash,
		ComputedHash:     computedHash,
		TempPubkeyFrs:    [3]frontend.Variable{frs[0], frs[1], frs[2]},
		TempPubkeyLen:    tempPubkeyLen,
		ExpDate:          expDate,
		ExpHorizon:       expHorizon,
		UseExtraField:    useExtraField,
	}, nil
}
