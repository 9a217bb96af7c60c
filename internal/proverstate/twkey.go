package proverstate

import (
	"crypto/ed25519"
	"encoding/hex"
)

// OnChainKeylessConfiguration mirrors the shape returned by an Aptos
// fullnode's 0x1::keyless_account::Configuration resource read. The
// hardcoded ConfigData values below match the network's current circuit
// parameters; only TrainingWheelsPubkey varies between the default and new
// key lanes.
type OnChainKeylessConfiguration struct {
	Type string     `json:"type"`
	Data ConfigData `json:"data"`
}

// ResourceName identifies this type to the watcher's periodic refresh loop.
func (OnChainKeylessConfiguration) ResourceName() string {
	return "OnChainTrainingWheelVerificationKey"
}

// ConfigData is the nested data payload of OnChainKeylessConfiguration.
type ConfigData struct {
	MaxCommitedEpkBytes   uint16              `json:"max_commited_epk_bytes"`
	MaxExpHorizonSecs     string              `json:"max_exp_horizon_secs"`
	MaxExtraFieldBytes    uint16              `json:"max_extra_field_bytes"`
	MaxIssValBytes        uint16              `json:"max_iss_val_bytes"`
	MaxJwtHeaderB64Bytes  uint32              `json:"max_jwt_header_b64_bytes"`
	MaxSignaturesPerTxn   uint16              `json:"max_signatures_per_txn"`
	OverrideAudVals       []string            `json:"override_aud_vals"`
	TrainingWheelsPubkey  TrainingWheelsPubKey `json:"training_wheels_pubkey"`
}

// TrainingWheelsPubKey wraps the single-element (or empty, if training
// wheels are disabled) vector of encoded Ed25519 public keys the on-chain
// Configuration resource carries.
type TrainingWheelsPubKey struct {
	Vec []string `json:"vec"`
}

// DefaultConfigData holds the circuit parameters shared by both lanes;
// only the training-wheels public key differs between default and new.
var DefaultConfigData = ConfigData{
	MaxCommitedEpkBytes:  93,
	MaxExpHorizonSecs:    "10000000",
	MaxExtraFieldBytes:   350,
	MaxIssValBytes:       120,
	MaxJwtHeaderB64Bytes: 300,
	MaxSignaturesPerTxn:  3,
	OverrideAudVals:      []string{},
}

// OnChainKeylessConfigurationFromTWPubkey builds the on-chain representation
// of a training-wheels public key (or the empty-vector representation, for
// a lane with training wheels disabled).
func OnChainKeylessConfigurationFromTWPubkey(pub ed25519.PublicKey) OnChainKeylessConfiguration {
	data := DefaultConfigData
	if pub != nil {
		data.TrainingWheelsPubkey = TrainingWheelsPubKey{Vec: []string{"0x" + hex.EncodeToString(pub)}}
	} else {
		data.TrainingWheelsPubkey = TrainingWheelsPubKey{Vec: []string{}}
	}
	return OnChainKeylessConfiguration{
		Type: "0x1::keyless_account::Configuration",
		Data: data,
	}
}

// TrainingWheelsKeyPair bundles an Ed25519 signing/verification keypair
// with its on-chain Configuration-resource representation, for one proving
// lane (default or new).
type TrainingWheelsKeyPair struct {
	SigningKey      ed25519.PrivateKey
	VerificationKey ed25519.PublicKey
	OnChainRepr     OnChainKeylessConfiguration
}

// TrainingWheelsKeyPairFromSeed derives a keypair from a 32-byte Ed25519
// seed (the format the PRIVATE_KEY_0 / PRIVATE_KEY_1 secrets carry) and
// builds its on-chain representation.
func TrainingWheelsKeyPairFromSeed(seed []byte) TrainingWheelsKeyPair {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return TrainingWheelsKeyPair{
		SigningKey:      priv,
		VerificationKey: pub,
		OnChainRepr:     OnChainKeylessConfigurationFromTWPubkey(pub),
	}
}
