package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "llmgate.yaml", `
providers:
  openai:
    default_model: gpt-4o-mini
  ollama:
    base_url: http://gpu-box:11434
    default_model: llama3.2
gateway:
  concurrency: 8
  timeout: 30s
  requests_per_second: 5
  burst: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Providers["openai"].DefaultModel != "gpt-4o-mini" {
		t.Errorf("openai = %+v", cfg.Providers["openai"])
	}
	if cfg.Providers["ollama"].BaseURL != "http://gpu-box:11434" {
		t.Errorf("ollama = %+v", cfg.Providers["ollama"])
	}
	if cfg.Gateway.Concurrency != 8 {
		t.Errorf("concurrency = %d", cfg.Gateway.Concurrency)
	}
	if cfg.Gateway.Timeout.Std() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Gateway.Timeout)
	}
	if cfg.Gateway.RequestsPerSecond != 5 || cfg.Gateway.Burst != 10 {
		t.Errorf("rate = %+v", cfg.Gateway)
	}
}

func TestLoad_EnvOverridesFileCredentials(t *testing.T) {
	path := writeFile(t, "llmgate.yaml", `
providers:
  mistral:
    api_key: from-file
    default_model: mistral-small-latest
`)
	t.Setenv("MISTRAL_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers["mistral"].APIKey != "from-env" {
		t.Errorf("api key = %q, want the environment value", cfg.Providers["mistral"].APIKey)
	}
	if cfg.Providers["mistral"].DefaultModel != "mistral-small-latest" {
		t.Errorf("default model = %q", cfg.Providers["mistral"].DefaultModel)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers == nil {
		t.Fatal("providers map must be initialized")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a named but missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "providers: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadEnv_MissingDotenvIsNotAnError(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing .env should be tolerated, got %v", err)
	}
}

func TestLoadEnv_File(t *testing.T) {
	path := writeFile(t, ".env", "LLMGATE_TEST_SENTINEL=loaded\n")
	t.Setenv("LLMGATE_TEST_SENTINEL", "")
	os.Unsetenv("LLMGATE_TEST_SENTINEL")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("LLMGATE_TEST_SENTINEL"); got != "loaded" {
		t.Errorf("sentinel = %q", got)
	}
}

func TestProviderOrDefault(t *testing.T) {
	cfg := &Config{Providers: map[string]Provider{"openai": {DefaultModel: "gpt-4o-mini"}}}

	if cfg.ProviderOrDefault("openai").DefaultModel != "gpt-4o-mini" {
		t.Error("known provider not returned")
	}
	if cfg.ProviderOrDefault("unknown") != (Provider{}) {
		t.Error("unknown provider must yield zero value")
	}
}
