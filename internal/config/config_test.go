package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.MusicBrainz.RateLimitMS != 1000 {
		t.Fatalf("expected 1s rate limit default, got %d", cfg.MusicBrainz.RateLimitMS)
	}
	if !strings.Contains(cfg.LLM.UserPromptTemplate, "{princevault_data}") {
		t.Fatal("default prompt template must carry the princevault placeholder")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
vault_db = "` + filepath.Join(dir, "vault.db") + `"

[matching]
min_confidence = 0.75
search_limit = 5

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Matching.MinConfidence != 0.75 {
		t.Fatalf("expected min_confidence 0.75, got %v", cfg.Matching.MinConfidence)
	}
	if cfg.Matching.SearchLimit != 5 {
		t.Fatalf("expected search_limit 5, got %d", cfg.Matching.SearchLimit)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
	// Untouched sections keep defaults.
	if cfg.MusicBrainz.BaseURL != defaultMusicBrainzBaseURL {
		t.Fatalf("expected default musicbrainz base url, got %q", cfg.MusicBrainz.BaseURL)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[matching]\nmin_confidence = 1.5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for min_confidence > 1")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("missing file must not be reported as existing")
	}
	if cfg.Matching.SearchLimit != defaultMatchSearchLimit {
		t.Fatalf("expected default search limit, got %d", cfg.Matching.SearchLimit)
	}
}

func TestEnvFallbackForAPIKeys(t *testing.T) {
	t.Setenv("ACOUSTID_API_KEY", "ak-test")
	t.Setenv("OPENROUTER_API_KEY", "or-test")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AcoustID.APIKey != "ak-test" {
		t.Fatalf("expected acoustid key from env, got %q", cfg.AcoustID.APIKey)
	}
	if cfg.LLM.APIKey != "or-test" {
		t.Fatalf("expected llm key from env, got %q", cfg.LLM.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[acoustid]") {
		t.Fatal("sample config should include the acoustid section")
	}
}
