package config

import (
	"fmt"
	"strings"
)

// Validate checks value ranges and required fields that do not depend on the
// runtime environment. API keys are intentionally not required here: the
// pipeline degrades per-source when a credential is missing.
func (c *Config) Validate() error {
	var problems []string

	if c.Matching.MinConfidence < 0 || c.Matching.MinConfidence > 1 {
		problems = append(problems, fmt.Sprintf("matching.min_confidence must be in [0,1], got %v", c.Matching.MinConfidence))
	}
	if c.Matching.SearchLimit < 1 {
		problems = append(problems, fmt.Sprintf("matching.search_limit must be positive, got %d", c.Matching.SearchLimit))
	}
	if c.MusicBrainz.RateLimitMS < 0 {
		problems = append(problems, fmt.Sprintf("musicbrainz.rate_limit_ms must not be negative, got %d", c.MusicBrainz.RateLimitMS))
	}
	if c.MusicBrainz.MaxRecording < 1 {
		problems = append(problems, fmt.Sprintf("musicbrainz.max_recordings must be positive, got %d", c.MusicBrainz.MaxRecording))
	}
	if c.LLM.TimeoutSeconds < 0 {
		problems = append(problems, fmt.Sprintf("llm.timeout_seconds must not be negative, got %d", c.LLM.TimeoutSeconds))
	}
	if strings.TrimSpace(c.LLM.UserPromptTemplate) == "" {
		problems = append(problems, "llm.user_prompt_template must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
