package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadReadsYamlAndOverlaysEnv(t *testing.T) {
	path := writeConfigFile(t, `
default_setup_dir: default
resources_dir: /resources
zkey_filename: circuit.ccs
verification_key_filename: circuit.vk
port: 8080
metrics_port: 9090
oidc_providers:
  - iss: https://accounts.google.com
    endpoint_url: https://www.googleapis.com/oauth2/v3/certs
`)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ONCHAIN_GROTH16_VK_URL", "https://fullnode.example.com/v1/accounts/0x1/resource/Groth16VerificationKey")
	t.Setenv("ONCHAIN_TW_VK_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DefaultSetupDir != "default" {
		t.Fatalf("DefaultSetupDir = %q, want %q", cfg.DefaultSetupDir, "default")
	}
	if cfg.Port != 8080 || cfg.MetricsPort != 9090 {
		t.Fatalf("Port/MetricsPort = %d/%d, want 8080/9090", cfg.Port, cfg.MetricsPort)
	}
	if len(cfg.OidcProviders) != 1 || cfg.OidcProviders[0].Iss != "https://accounts.google.com" {
		t.Fatalf("OidcProviders = %+v", cfg.OidcProviders)
	}
	if cfg.OnchainGroth16VkURL == "" {
		t.Fatalf("expected OnchainGroth16VkURL to be overlaid from the environment")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestSetupDirDefault(t *testing.T) {
	cfg := &ProverServiceConfig{DefaultSetupDir: "default"}
	if got := cfg.SetupDir(false); got != "default" {
		t.Fatalf("SetupDir(false) = %q, want %q", got, "default")
	}
}

func TestSetupDirNewConfigured(t *testing.T) {
	newDir := "new"
	cfg := &ProverServiceConfig{DefaultSetupDir: "default", NewSetupDir: &newDir}
	if got := cfg.SetupDir(true); got != "new" {
		t.Fatalf("SetupDir(true) = %q, want %q", got, "new")
	}
}

func TestSetupDirPanicsWhenNewUnconfigured(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected SetupDir(true) to panic when new_setup_dir is unset")
		}
	}()
	cfg := &ProverServiceConfig{DefaultSetupDir: "default"}
	cfg.SetupDir(true)
}

func TestZkeyPathJoinsResourcesSetupAndFilename(t *testing.T) {
	cfg := &ProverServiceConfig{
		DefaultSetupDir: "default",
		ResourcesDir:    "/resources",
		ZkeyFilename:    "circuit.ccs",
	}
	want := filepath.Join("/resources", "default", "circuit.ccs")
	if got := cfg.ZkeyPath(false); got != want {
		t.Fatalf("ZkeyPath(false) = %q, want %q", got, want)
	}
}

func TestLoadSecretsRequiresPrivateKey0(t *testing.T) {
	t.Setenv("PRIVATE_KEY_0", "")
	if _, err := LoadSecrets(); err == nil {
		t.Fatalf("expected an error when PRIVATE_KEY_0 is unset")
	}
}

func TestLoadSecretsReadsBothKeys(t *testing.T) {
	t.Setenv("PRIVATE_KEY_0", "deadbeef")
	t.Setenv("PRIVATE_KEY_1", "beefdead")

	secrets, err := LoadSecrets()
	if err != nil {
		t.Fatalf("LoadSecrets() error: %v", err)
	}
	if secrets.PrivateKey0 != "deadbeef" || secrets.PrivateKey1 != "beefdead" {
		t.Fatalf("secrets = %+v", secrets)
	}
}
