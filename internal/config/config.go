// Package config loads the prover service configuration from a YAML file
// (path resolved from the CONFIG_FILE environment variable) layered with a
// small set of secrets read directly from the environment, mirroring the
// original service's Figment(Yaml + Env) layering.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// OidcProvider is one statically configured issuer/JWKS-endpoint pair.
type OidcProvider struct {
	Iss         string `yaml:"iss"`
	EndpointURL string `yaml:"endpoint_url"`
}

// ProverServiceConfig is the full set of tunables for the prover service,
// loaded from YAML. Field names mirror the original service's config
// schema exactly.
type ProverServiceConfig struct {
	DefaultSetupDir             string         `yaml:"default_setup_dir"`
	NewSetupDir                 *string        `yaml:"new_setup_dir"`
	ResourcesDir                string         `yaml:"resources_dir"`
	ZkeyFilename                string         `yaml:"zkey_filename"`
	VerificationKeyFilename     string         `yaml:"verification_key_filename"`
	WitnessGenBinaryFilename    string         `yaml:"witness_gen_binary_filename"`
	OidcProviders               []OidcProvider `yaml:"oidc_providers"`
	JwkRefreshRateSecs          uint64         `yaml:"jwk_refresh_rate_secs"`
	Port                        uint16         `yaml:"port"`
	MetricsPort                 uint16         `yaml:"metrics_port"`
	EnableDangerousLogging      bool           `yaml:"enable_dangerous_logging"`
	EnableDebugChecks           bool           `yaml:"enable_debug_checks"`
	EnableTestProvider          bool           `yaml:"enable_test_provider"`
	EnableFederatedJwks         bool           `yaml:"enable_federated_jwks"`
	DisableIatInPastCheck       bool           `yaml:"disable_iat_in_past_check"`
	UseInsecureJwkForTest       bool           `yaml:"use_insecure_jwk_for_test"`
	OnchainGroth16VkURL         string         `yaml:"-"`
	OnchainTwVkURL              string         `yaml:"-"`
}

// SetupDir returns the default or new setup directory per the lane flag.
// Panics if useNewSetup is true and no new setup directory is configured —
// callers must only pass true when a new lane actually exists.
func (c *ProverServiceConfig) SetupDir(useNewSetup bool) string {
	if useNewSetup {
		if c.NewSetupDir == nil {
			panic("config: new_setup_dir requested but not configured")
		}
		return *c.NewSetupDir
	}
	return c.DefaultSetupDir
}

func (c *ProverServiceConfig) resourcePath(useNewSetup bool, filename string) string {
	return expandTilde(filepath.Join(c.ResourcesDir, c.SetupDir(useNewSetup), filename))
}

// ZkeyPath is the path to the lane's proving key.
func (c *ProverServiceConfig) ZkeyPath(useNewSetup bool) string {
	return c.resourcePath(useNewSetup, c.ZkeyFilename)
}

// VerificationKeyPath is the path to the lane's verification key.
func (c *ProverServiceConfig) VerificationKeyPath(useNewSetup bool) string {
	return c.resourcePath(useNewSetup, c.VerificationKeyFilename)
}

// WitnessGenBinaryPath is the path to the lane's witness-gen helper binary,
// kept for parity with the original layout even though this rewrite
// performs witness generation in-process (see SPEC_FULL.md §6.3).
func (c *ProverServiceConfig) WitnessGenBinaryPath(useNewSetup bool) string {
	return c.resourcePath(useNewSetup, c.WitnessGenBinaryFilename)
}

func expandTilde(p string) string {
	if p == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// ProverServiceSecrets carries the Ed25519 training-wheels secret keys,
// read only from the environment (never from YAML).
type ProverServiceSecrets struct {
	PrivateKey0 string `envconfig:"PRIVATE_KEY_0" required:"true"`
	PrivateKey1 string `envconfig:"PRIVATE_KEY_1"`
}

type envVars struct {
	ConfigFile          string `envconfig:"CONFIG_FILE" default:"config.yml"`
	OnchainGroth16VkURL  string `envconfig:"ONCHAIN_GROTH16_VK_URL"`
	OnchainTwVkURL       string `envconfig:"ONCHAIN_TW_VK_URL"`
}

// Load reads CONFIG_FILE (default config.yml) and overlays the
// ONCHAIN_*_URL environment variables onto the decoded config.
func Load() (*ProverServiceConfig, error) {
	var env envVars
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	raw, err := os.ReadFile(filepath.Clean(env.ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", env.ConfigFile, err)
	}

	var cfg ProverServiceConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", env.ConfigFile, err)
	}

	cfg.OnchainGroth16VkURL = env.OnchainGroth16VkURL
	cfg.OnchainTwVkURL = env.OnchainTwVkURL

	return &cfg, nil
}

// LoadSecrets reads the training-wheels private keys from the environment.
func LoadSecrets() (*ProverServiceSecrets, error) {
	var s ProverServiceSecrets
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("reading secrets: %w", err)
	}
	if s.PrivateKey0 == "" {
		return nil, fmt.Errorf("reading secrets: PRIVATE_KEY_0 is empty")
	}
	return &s, nil
}
