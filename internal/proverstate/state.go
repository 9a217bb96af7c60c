package proverstate

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zkprover/keyless-prover/internal/config"
)

const (
	ccsFilename = "circuit.ccs"
)

// ProverServiceState is the full runtime state of a prover process: the
// loaded default (and optionally new) proving lanes, their training-wheels
// keypairs, and the service configuration. A sync.Mutex per lane serializes
// concurrent Groth16 proving calls against that lane's proving key, mirroring
// the original service's per-setup FullProver mutex.
type ProverServiceState struct {
	LaneDefault       Lane
	laneDefaultMu     sync.Mutex
	LaneNew           *Lane
	laneNewMu         sync.Mutex
	NewGroth16VK      *OnChainGroth16VerificationKey
	TWKeypairDefault  TrainingWheelsKeyPair
	TWKeypairNew      *TrainingWheelsKeyPair
	Config            *config.ProverServiceConfig
}

// LockDefault serializes proving calls against the default lane.
func (s *ProverServiceState) LockDefault() func() {
	s.laneDefaultMu.Lock()
	return s.laneDefaultMu.Unlock
}

// LockNew serializes proving calls against the new lane, if one exists.
func (s *ProverServiceState) LockNew() func() {
	s.laneNewMu.Lock()
	return s.laneNewMu.Unlock
}

// UseNewSetup decides whether a request should be proven against the new
// lane: true only when a new lane is configured and its locally-derived
// on-chain VK exactly matches the externally-fetched on-chain VK snapshot.
func (s *ProverServiceState) UseNewSetup(fetchedOnChainVK *OnChainGroth16VerificationKey) bool {
	if s.LaneNew == nil || s.NewGroth16VK == nil || fetchedOnChainVK == nil {
		return false
	}
	return vkEqual(*s.NewGroth16VK, *fetchedOnChainVK)
}

// UseNewTWKeys decides whether a response should be signed with the new
// training-wheels key: true only when a new keypair is configured and its
// on-chain representation exactly matches the externally-fetched snapshot.
func (s *ProverServiceState) UseNewTWKeys(fetchedOnChainConfig *OnChainKeylessConfiguration) bool {
	if s.TWKeypairNew == nil || fetchedOnChainConfig == nil {
		return false
	}
	return configEqual(s.TWKeypairNew.OnChainRepr, *fetchedOnChainConfig)
}

func vkEqual(a, b OnChainGroth16VerificationKey) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(aj) == string(bj)
}

func configEqual(a, b OnChainKeylessConfiguration) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(aj) == string(bj)
}

// Init loads configuration and secrets, builds both lanes' training-wheels
// keypairs, and compiles/loads the JWTCircuit's constraint system and
// Groth16 keys for the default lane (and the new lane, if configured).
func Init() (*ProverServiceState, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("loading secrets: %w", err)
	}

	seed0, err := decodeEd25519Seed(secrets.PrivateKey0)
	if err != nil {
		return nil, fmt.Errorf("decoding PRIVATE_KEY_0: %w", err)
	}
	twDefault := TrainingWheelsKeyPairFromSeed(seed0)

	var twNew *TrainingWheelsKeyPair
	if secrets.PrivateKey1 != "" {
		seed1, err := decodeEd25519Seed(secrets.PrivateKey1)
		if err != nil {
			return nil, fmt.Errorf("decoding PRIVATE_KEY_1: %w", err)
		}
		kp := TrainingWheelsKeyPairFromSeed(seed1)
		twNew = &kp
	}

	laneDefault, err := loadOrBuildLane(cfg, false)
	if err != nil {
		return nil, fmt.Errorf("loading default lane: %w", err)
	}

	var laneNew *Lane
	var newVK *OnChainGroth16VerificationKey
	if cfg.NewSetupDir != nil {
		ln, err := loadOrBuildLane(cfg, true)
		if err != nil {
			return nil, fmt.Errorf("loading new lane: %w", err)
		}
		laneNew = ln

		vk, err := localVerificationKeyOnchainRepr(cfg)
		if err != nil {
			return nil, fmt.Errorf("converting new lane verification key: %w", err)
		}
		newVK = &vk
	}

	return &ProverServiceState{
		LaneDefault:      *laneDefault,
		LaneNew:          laneNew,
		NewGroth16VK:     newVK,
		TWKeypairDefault: twDefault,
		TWKeypairNew:     twNew,
		Config:           cfg,
	}, nil
}

func decodeEd25519Seed(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex decoding: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("expected 32-byte seed, got %d bytes", len(b))
	}
	return b, nil
}

// loadOrBuildLane loads a previously-saved constraint system and Groth16
// keypair from the lane's resources directory, compiling and running a
// fresh (insecure, non-ceremony) setup only when no saved artifacts exist —
// this service does not perform or substitute for a trusted setup ceremony;
// production deployments must supply real resources files.
func loadOrBuildLane(cfg *config.ProverServiceConfig, useNewSetup bool) (*Lane, error) {
	ccsPath := cfg.ZkeyPath(useNewSetup) + "." + ccsFilename
	pkPath := cfg.ZkeyPath(useNewSetup)
	vkPath := cfg.VerificationKeyPath(useNewSetup)

	if fileExists(ccsPath) && fileExists(pkPath) && fileExists(vkPath) {
		ccs, pk, vk, err := loadSetup(ccsPath, pkPath, vkPath)
		if err != nil {
			return nil, err
		}
		return &Lane{CS: ccs, ProvingKey: pk, VerifyingKey: vk, InputParser: CircuitInputParser{}}, nil
	}

	ccs, pk, vk, err := setupAndSave(&JWTCircuit{}, ccsPath, pkPath, vkPath)
	if err != nil {
		return nil, err
	}
	return &Lane{CS: ccs, ProvingKey: pk, VerifyingKey: vk, InputParser: CircuitInputParser{}}, nil
}

func setupAndSave(circuitTemplate frontend.Circuit, ccsPath, pkPath, vkPath string) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuitTemplate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("compiling circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("running groth16 setup: %w", err)
	}

	if err := writeArtifact(ccsPath, ccs); err != nil {
		return nil, nil, nil, err
	}
	if err := writeArtifact(pkPath, pk); err != nil {
		return nil, nil, nil, err
	}
	if err := writeArtifact(vkPath, vk); err != nil {
		return nil, nil, nil, err
	}

	return ccs, pk, vk, nil
}

func writeArtifact(path string, v io.WriterTo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := v.WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func loadSetup(ccsPath, pkPath, vkPath string) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	ccsFile, err := os.Open(ccsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer ccsFile.Close()
	ccs := groth16.NewCS(ecc.BN254)
	if _, err := ccs.ReadFrom(ccsFile); err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", ccsPath, err)
	}

	pkFile, err := os.Open(pkPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer pkFile.Close()
	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(pkFile); err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", pkPath, err)
	}

	vkFile, err := os.Open(vkPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer vkFile.Close()
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(vkFile); err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", vkPath, err)
	}

	return ccs, pk, vk, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// localVerificationKeyOnchainRepr loads the new lane's snarkjs-format
// verification key JSON (the verification key path with ".snarkjs.json"
// appended) and derives its on-chain representation for lane-selection
// comparisons.
func localVerificationKeyOnchainRepr(cfg *config.ProverServiceConfig) (OnChainGroth16VerificationKey, error) {
	path := cfg.VerificationKeyPath(true) + ".snarkjs.json"
	raw, err := os.ReadFile(path)
	if err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("reading snarkjs verification key %s: %w", path, err)
	}
	var vk SnarkJsGroth16VerificationKey
	if err := json.Unmarshal(raw, &vk); err != nil {
		return OnChainGroth16VerificationKey{}, fmt.Errorf("parsing snarkjs verification key: %w", err)
	}
	return vk.TryAsOnchainRepr()
}
