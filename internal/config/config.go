package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	VaultDB string `toml:"vault_db"`
	LogDir  string `toml:"log_dir"`
}

// AcoustID contains configuration for the acoustic fingerprint service.
type AcoustID struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	FpcalcBinary string `toml:"fpcalc_binary"`
}

// MusicBrainz contains configuration for the canonical metadata service.
type MusicBrainz struct {
	BaseURL      string `toml:"base_url"`
	UserAgent    string `toml:"user_agent"`
	RateLimitMS  int    `toml:"rate_limit_ms"`
	MaxRecording int    `toml:"max_recordings"`
}

// LLM contains connection and prompt settings for metadata reconciliation.
type LLM struct {
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	Model              string `toml:"model"`
	Referer            string `toml:"referer"`
	Title              string `toml:"title"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	SystemPrompt       string `toml:"system_prompt"`
	UserPromptTemplate string `toml:"user_prompt_template"`
}

// Matching contains fuzzy search thresholds for the vault matcher.
type Matching struct {
	MinConfidence float64 `toml:"min_confidence"`
	SearchLimit   int     `toml:"search_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for princer.
//
// Configuration sections by subsystem:
//   - Paths: vault database location and log directory
//   - AcoustID: fingerprint extraction and lookup
//   - MusicBrainz: recording detail lookup and rate limiting
//   - LLM: reconciliation model connection and prompts
//   - Matching: vault fuzzy search thresholds
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	AcoustID    AcoustID    `toml:"acoustid"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	LLM         LLM         `toml:"llm"`
	Matching    Matching    `toml:"matching"`
	Logging     Logging     `toml:"logging"`
}

// EnsureDirectories creates the directories the tool writes to.
func (c *Config) EnsureDirectories() error {
	if dir := strings.TrimSpace(c.Paths.LogDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/princer/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded, environment fallbacks applied, and
// thresholds validated.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("princer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// normalize expands paths and applies environment fallbacks for secrets so
// that no component reads ambient state after Load returns.
func (c *Config) normalize() error {
	var err error
	if c.Paths.VaultDB, err = ExpandPath(strings.TrimSpace(c.Paths.VaultDB)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = ExpandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	if strings.TrimSpace(c.AcoustID.APIKey) == "" {
		c.AcoustID.APIKey = strings.TrimSpace(os.Getenv("ACOUSTID_API_KEY"))
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		if model := strings.TrimSpace(os.Getenv("OPENROUTER_MODEL")); model != "" {
			c.LLM.Model = model
		}
	}
	return nil
}

// ExpandPath resolves a leading tilde and returns an absolute path. Empty
// input stays empty.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
