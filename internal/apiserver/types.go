// Package apiserver wires the request orchestrator (C8) and HTTP surface
// (C9): JSON request/response envelopes, the /v0/prove handler pipeline,
// health/metrics endpoints, and the chi router + middleware stack.
package apiserver

// Groth16ProofJSON is the compressed-point proof triple as it appears on
// the wire, hex-encoded.
type Groth16ProofJSON struct {
	PiA string `json:"pi_a"`
	PiB string `json:"pi_b"`
	PiC string `json:"pi_c"`
}

// ProverServiceResponse is the JSON body of a successful POST /v0/prove:
// proof, public_inputs_hash and training_wheels_signature are set. Error
// responses are written by respondError as a flat {"message": ...} object.
// Neither case is wrapped in a "Success" or "Error" key.
type ProverServiceResponse struct {
	Proof                   *Groth16ProofJSON `json:"proof,omitempty"`
	PublicInputsHash        string            `json:"public_inputs_hash,omitempty"`
	TrainingWheelsSignature string            `json:"training_wheels_signature,omitempty"`
	Message                 string            `json:"message,omitempty"`
}
