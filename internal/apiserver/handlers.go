package apiserver

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/zkprover/keyless-prover/internal/apperror"
	"github.com/zkprover/keyless-prover/internal/config"
	"github.com/zkprover/keyless-prover/internal/inputproc"
	"github.com/zkprover/keyless-prover/internal/jwkcache"
	"github.com/zkprover/keyless-prover/internal/proverstate"
	"github.com/zkprover/keyless-prover/internal/trainingwheels"
	"github.com/zkprover/keyless-prover/internal/watcher"
)

// insecureTestJwkURL is the fixed, well-known JWK document the service will
// fetch a signing key from when both the server operator and the caller
// opt into test mode. Never reachable in production: use_insecure_jwk_for_test
// defaults to false and must be set explicitly in config.yml.
const insecureTestJwkURL = "https://github.com/aptos-labs/aptos-core/raw/main/types/src/jwks/rsa/insecure_test_jwk.json"

const maxProveRetries = 3

// Server holds everything the HTTP handlers need: the dual-setup prover
// state, the JWK cache, the on-chain resource cells, and a logger.
type Server struct {
	State      *proverstate.ProverServiceState
	Jwks       *jwkcache.Cache
	Groth16VK  *watcher.Cell[proverstate.OnChainGroth16VerificationKey]
	TWConfig   *watcher.Cell[proverstate.OnChainKeylessConfiguration]
	HTTPClient *http.Client
	Log        Logger
}

// HandleHealthcheck is the readiness beacon an orchestrator polls.
func (s *Server) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleFallback answers any unrecognized route.
func (s *Server) HandleFallback(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("Invalid route"))
}

// HandleProve implements the full VALIDATE_JWT -> PREPROCESS -> CROSS_CHECK
// -> DERIVE -> SELECT -> WITNESS_GEN/PROVE -> VERIFY (retry <=3) -> SIGN ->
// RESPOND request orchestrator.
func (s *Server) HandleProve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { proverTimeSecs.Observe(time.Since(start).Seconds()) }()
	requestQueueTimeSecs.Observe(time.Since(start).Seconds())

	ctx := r.Context()

	var body inputproc.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, apperror.BadRequest(fmt.Errorf("decoding request body: %w", err)))
		return
	}

	jwk, err := s.resolveJwkOverride(ctx, body)
	if err != nil {
		s.respondError(w, apperror.WithStatus(err, http.StatusBadRequest))
		return
	}

	if err := trainingwheels.ValidateJwtSigAndDates(body.JwtB64, jwk, s.State.Config.DisableIatInPastCheck); err != nil {
		s.respondError(w, apperror.WithStatus(err, http.StatusBadRequest))
		return
	}

	input, err := inputproc.DecodeAndAddJwk(body, jwk, s.Jwks)
	if err != nil {
		s.respondError(w, apperror.WithStatus(err, http.StatusBadRequest))
		return
	}

	maxCommitedEpkBytes := proverstate.DefaultConfigData.MaxCommitedEpkBytes
	if err := trainingwheels.CheckNonceConsistency(input, int(maxCommitedEpkBytes)); err != nil {
		s.respondError(w, apperror.WithStatus(err, http.StatusBadRequest))
		return
	}
	if err := trainingwheels.ValidateJwtPayloadParsing(input); err != nil {
		s.respondError(w, apperror.WithStatus(err, http.StatusBadRequest))
		return
	}

	paddingCfg := inputproc.PaddingConfig{MaxLengths: inputproc.DefaultMaxLengths()}
	padded, publicInputsHash, err := inputproc.DeriveCircuitInputSignals(input, paddingCfg)
	if err != nil {
		s.respondError(w, apperror.WithStatus(err, http.StatusInternalServerError))
		return
	}

	if s.State.Config.EnableDangerousLogging {
		if formatted, mErr := json.Marshal(padded); mErr == nil {
			_ = os.WriteFile("formatted_input.json", formatted, 0o644)
		}
	}

	useNewSetup := s.State.UseNewSetup(s.Groth16VK.Snapshot())
	s.Log.Info("lane selected", "use_new_setup", useNewSetup)

	assignmentJSON, err := proverstate.BuildAssignmentJSON(padded, publicInputsHash)
	if err != nil {
		s.respondError(w, apperror.Internal(fmt.Errorf("building circuit assignment: %w", err)))
		return
	}

	proofBytes, err := s.proveWithRetries(useNewSetup, assignmentJSON)
	if err != nil {
		s.respondError(w, err)
		return
	}

	proof, err := proverstate.DecodeProof(proofBytes)
	if err != nil {
		s.respondError(w, apperror.Internal(fmt.Errorf("decoding proof: %w", err)))
		return
	}

	useNewTWKeys := s.State.UseNewTWKeys(s.TWConfig.Snapshot())
	s.Log.Info("training wheels key selected", "use_new_tw_keys", useNewTWKeys)

	twKeypair := s.State.TWKeypairDefault
	if useNewTWKeys {
		twKeypair = *s.State.TWKeypairNew
	}

	signature := trainingwheels.Sign(twKeypair.SigningKey, proof, publicInputsHash)
	envelope := trainingwheels.EncodeEphemeralSignature(signature)

	if s.State.Config.EnableDebugChecks {
		if err := trainingwheels.Verify(twKeypair.VerificationKey, proof, publicInputsHash, signature); err != nil {
			s.respondError(w, apperror.Internal(fmt.Errorf("self-check of training wheels signature failed: %w", err)))
			return
		}
	}

	resp := ProverServiceResponse{
		Proof: &Groth16ProofJSON{
			PiA: hex.EncodeToString(proof.PiA[:]),
			PiB: hex.EncodeToString(proof.PiB[:]),
			PiC: hex.EncodeToString(proof.PiC[:]),
		},
		PublicInputsHash:        hex.EncodeToString(publicInputsHash[:]),
		TrainingWheelsSignature: hex.EncodeToString(envelope),
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// proveWithRetries runs WITNESS_GEN+PROVE then VERIFY against the selected
// lane, repeating the whole prove-verify cycle on a verification mismatch
// for at most maxProveRetries attempts in total before giving up.
func (s *Server) proveWithRetries(useNewSetup bool, assignmentJSON []byte) ([]byte, *apperror.Error) {
	lane := s.State.LaneDefault
	unlock := s.State.LockDefault()
	if useNewSetup {
		lane = *s.State.LaneNew
		unlock = s.State.LockNew()
	}
	defer unlock()

	public := lane.Public()

	var lastErr error
	for attempt := 0; attempt < maxProveRetries; attempt++ {
		proveStart := time.Now()
		proofBytes, err := lane.Prove(assignmentJSON)
		groth16TimeSecs.Observe(time.Since(proveStart).Seconds())
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("proof creation failed: %w", err))
		}

		if verifyErr := public.Verify(assignmentJSON, proofBytes); verifyErr != nil {
			lastErr = verifyErr
			s.Log.Warn("generated an invalid proof, retrying", "attempt", attempt+1, "error", verifyErr)
			continue
		}
		return proofBytes, nil
	}

	return nil, apperror.Internal(fmt.Errorf("proof failed to verify after %d attempts: %w", maxProveRetries, lastErr))
}

// resolveJwkOverride implements the federated-then-insecure-test-jwk
// override precedence ahead of the cached-issuer lookup used by
// inputproc.DecodeAndAddJwk when no override is returned.
func (s *Server) resolveJwkOverride(ctx context.Context, body inputproc.RequestInput) (*jwkcache.RSAJWK, error) {
	decoded, err := inputproc.DecodeJwt(body.JwtB64)
	if err != nil {
		return nil, err
	}

	var jwk *jwkcache.RSAJWK
	if s.State.Config.EnableFederatedJwks && s.Jwks.FederatedEnabled() {
		if federated, fErr := s.Jwks.GetFederatedJWK(ctx, decoded.Payload.Iss, decoded.Header.Kid); fErr == nil {
			s.Log.Info("using federated jwk", "kid", federated.Kid)
			jwk = federated
		}
	}

	if s.State.Config.UseInsecureJwkForTest && body.UseInsecureTestJwk {
		if testJwk, tErr := s.fetchInsecureTestJwk(ctx, decoded.Header.Kid); tErr == nil {
			s.Log.Info("using insecure test jwk")
			jwk = testJwk
		}
	}

	return jwk, nil
}

func (s *Server) fetchInsecureTestJwk(ctx context.Context, kid string) (*jwkcache.RSAJWK, error) {
	keys, err := s.Jwks.FetchJWKs(ctx, insecureTestJwkURL)
	if err != nil {
		return nil, err
	}
	key, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid: %s", kid)
	}
	return key, nil
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	ae := apperror.Wrap(err)
	if ae.Status() == http.StatusBadRequest {
		s.Log.Warn("bad request", "error", ae.Error())
	} else {
		s.Log.Error("request failed", "error", ae.Error(), "status", ae.Status())
	}
	s.respondJSON(w, ae.Status(), errorResponse{Message: ae.Error()})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.Log != nil {
		s.Log.Error("failed to encode response", "error", err)
	}
}

// StartBackgroundLoops launches the JWK refresh loop and, where configured,
// the on-chain Groth16 VK / training-wheels config refresh loops.
func (s *Server) StartBackgroundLoops(ctx context.Context, log *slog.Logger) error {
	if err := s.Jwks.InitJWKFetching(ctx, providersToJwkcache(s.State.Config.OidcProviders), time.Duration(s.State.Config.JwkRefreshRateSecs)*time.Second); err != nil {
		return fmt.Errorf("initializing jwk fetching: %w", err)
	}

	const onChainRefreshInterval = 10 * time.Second
	if s.State.Config.OnchainGroth16VkURL != "" {
		watcher.StartExternalResourceRefreshLoop(ctx, log, s.HTTPClient, s.State.Config.OnchainGroth16VkURL, onChainRefreshInterval, s.Groth16VK)
	}
	if s.State.Config.OnchainTwVkURL != "" {
		watcher.StartExternalResourceRefreshLoop(ctx, log, s.HTTPClient, s.State.Config.OnchainTwVkURL, onChainRefreshInterval, s.TWConfig)
	}
	return nil
}

func providersToJwkcache(providers []config.OidcProvider) []jwkcache.OidcProvider {
	out := make([]jwkcache.OidcProvider, len(providers))
	for i, p := range providers {
		out[i] = jwkcache.OidcProvider{Iss: p.Iss, EndpointURL: p.EndpointURL}
	}
	return out
}
