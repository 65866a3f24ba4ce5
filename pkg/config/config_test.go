package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes yamlContent to a temp config.yaml and points CONFIG_PATH at it.
func writeConfig(t *testing.T, yamlContent string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)
	return tmpDir
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, `
port: "8050"
env: "test"
resources:
  dir: "/srv/artifacts"
  profiles: "probs.csv"
prediction:
  max_count: 500
`)

	// Clear env vars that might interfere with test
	os.Unsetenv("BASE_URL")
	os.Unsetenv("RESOURCES_DIR")

	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected Port=9090 (from env), got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.BaseURL != "http://localhost:9090" {
		t.Errorf("expected BaseURL=http://localhost:9090 (auto-derived from PORT), got %s", cfg.BaseURL)
	}

	// YAML values prove the file was read
	if cfg.Resources.Dir != "/srv/artifacts" {
		t.Errorf("expected Resources.Dir=/srv/artifacts (from yaml), got %s", cfg.Resources.Dir)
	}
	if cfg.Resources.Profiles != "probs.csv" {
		t.Errorf("expected Resources.Profiles=probs.csv (from yaml), got %s", cfg.Resources.Profiles)
	}
	if cfg.Prediction.MaxCount != 500 {
		t.Errorf("expected Prediction.MaxCount=500 (from yaml), got %d", cfg.Prediction.MaxCount)
	}
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, `env: "test"`)

	os.Unsetenv("PORT")
	os.Unsetenv("BASE_URL")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("HISTORY_DATABASE_URL")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8050" {
		t.Errorf("expected default Port=8050, got %s", cfg.Port)
	}
	if cfg.Resources.Dir != "resources" {
		t.Errorf("expected default Resources.Dir=resources, got %s", cfg.Resources.Dir)
	}
	if cfg.Resources.Classifier != "final_model.json" {
		t.Errorf("expected default classifier file, got %s", cfg.Resources.Classifier)
	}
	if cfg.Prediction.MaxCount != 1000 {
		t.Errorf("expected default Prediction.MaxCount=1000, got %d", cfg.Prediction.MaxCount)
	}
	if cfg.Prediction.CacheTTL != 24*time.Hour {
		t.Errorf("expected default CacheTTL=24h, got %s", cfg.Prediction.CacheTTL)
	}
	if cfg.Redis.Enabled() {
		t.Error("expected Redis to be disabled without REDIS_HOST")
	}
	if cfg.History.Enabled() {
		t.Error("expected history to be disabled without HISTORY_DATABASE_URL")
	}
	if !cfg.MCP.Enabled {
		t.Error("expected MCP to be enabled by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected default ShutdownTimeout=10s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoad_BaseURLExplicit(t *testing.T) {
	writeConfig(t, `
port: "8050"
base_url: "https://growth.example.com"
`)
	os.Unsetenv("BASE_URL")
	os.Unsetenv("PORT")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "https://growth.example.com" {
		t.Errorf("expected explicit BaseURL to be kept, got %s", cfg.BaseURL)
	}
}

func TestLoad_MissingConfigFileUsesEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	t.Setenv("PORT", "7001")
	t.Setenv("RESOURCES_DIR", "/opt/resources")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("HISTORY_DATABASE_URL", "postgres://u:p@db/growth")
	os.Unsetenv("BASE_URL")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "7001" {
		t.Errorf("expected Port=7001 from env, got %s", cfg.Port)
	}
	if cfg.Resources.Dir != "/opt/resources" {
		t.Errorf("expected Resources.Dir from env, got %s", cfg.Resources.Dir)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.Addr() != "cache.internal:6379" {
		t.Errorf("expected Redis enabled at cache.internal:6379, got %q", cfg.Redis.Addr())
	}
	if !cfg.History.Enabled() {
		t.Error("expected history to be enabled from env")
	}
}

func TestLoad_InvalidMaxCount(t *testing.T) {
	writeConfig(t, `
prediction:
  max_count: -5
`)
	os.Unsetenv("PREDICTION_MAX_COUNT")

	_, err := Load("dev")
	if err == nil {
		t.Fatal("expected error for negative max_count")
	}
	if !strings.Contains(err.Error(), "max_count") {
		t.Errorf("expected error to mention max_count, got: %v", err)
	}
}

func TestResourcesConfig_Path(t *testing.T) {
	rc := ResourcesConfig{Dir: "resources"}

	if got := rc.Path("final_probs.csv"); got != filepath.Join("resources", "final_probs.csv") {
		t.Errorf("unexpected relative path: %s", got)
	}

	abs := filepath.Join(t.TempDir(), "model.json")
	if got := rc.Path(abs); got != abs {
		t.Errorf("expected absolute path to be unchanged, got %s", got)
	}
}

func TestValidateTLS_BothProvided(t *testing.T) {
	tmpDir := t.TempDir()
	certPath := filepath.Join(tmpDir, "cert.pem")
	keyPath := filepath.Join(tmpDir, "key.pem")
	if err := os.WriteFile(certPath, []byte("cert"), 0644); err != nil {
		t.Fatalf("failed to write cert: %v", err)
	}
	if err := os.WriteFile(keyPath, []byte("key"), 0644); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}

	cfg := &Config{TLSCertPath: certPath, TLSKeyPath: keyPath}
	if err := cfg.validateTLS(); err != nil {
		t.Errorf("expected valid TLS config, got: %v", err)
	}
	if !cfg.TLSEnabled() {
		t.Error("expected TLSEnabled() to be true")
	}
}

func TestValidateTLS_OnlyCertProvided(t *testing.T) {
	cfg := &Config{TLSCertPath: "/tmp/cert.pem"}

	err := cfg.validateTLS()
	if err == nil {
		t.Fatal("expected error when only cert is provided")
	}
	if !strings.Contains(err.Error(), "must be provided together") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidateTLS_CertFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()
	keyPath := filepath.Join(tmpDir, "key.pem")
	if err := os.WriteFile(keyPath, []byte("key"), 0644); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}

	cfg := &Config{TLSCertPath: filepath.Join(tmpDir, "missing.pem"), TLSKeyPath: keyPath}

	err := cfg.validateTLS()
	if err == nil {
		t.Fatal("expected error for missing cert file")
	}
	if !strings.Contains(err.Error(), "TLS cert file does not exist") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestConfig_ListenAddr(t *testing.T) {
	cfg := &Config{BindAddr: "0.0.0.0", Port: "8050"}
	if got := cfg.ListenAddr(); got != "0.0.0.0:8050" {
		t.Errorf("expected 0.0.0.0:8050, got %s", got)
	}
}
