package identify

import (
	"context"
	"log/slog"
	"strings"

	"princer/internal/logging"
	"princer/internal/services"
	"princer/internal/services/llm"
)

// NormalizedMetadata is the reconciled view of one recording, as returned by
// the language model. Raw preserves the verbatim model response for
// diagnostics and is never serialized.
type NormalizedMetadata struct {
	Title         string  `json:"title"`
	Artist        string  `json:"artist"`
	Album         string  `json:"album,omitempty"`
	TrackNumber   int     `json:"track_number,omitempty"`
	Year          int     `json:"year,omitempty"`
	Date          string  `json:"date,omitempty"`
	Category      string  `json:"category,omitempty"`
	RecordingDate string  `json:"recording_date,omitempty"`
	Venue         string  `json:"venue,omitempty"`
	SessionInfo   string  `json:"session_info,omitempty"`
	Genre         string  `json:"genre,omitempty"`
	Comments      string  `json:"comments,omitempty"`
	Confidence    float64 `json:"confidence"`

	Raw string `json:"-"`
}

// Completer issues a JSON-only completion request.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Reconciler asks the language model to reconcile an evidence bundle into
// normalized metadata.
type Reconciler struct {
	completer    Completer
	systemPrompt string
	userTemplate string
	logger       *slog.Logger
}

// NewReconciler builds a Reconciler with the supplied prompts. A nil logger
// disables logging.
func NewReconciler(completer Completer, systemPrompt, userTemplate string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		completer:    completer,
		systemPrompt: systemPrompt,
		userTemplate: userTemplate,
		logger:       logging.WithComponent(logger, "reconcile"),
	}
}

// Reconcile renders the bundle into a prompt and parses the model's JSON
// answer. A malformed response is recovered locally: the result defaults to
// Unknown/Unknown with zero confidence and the raw text preserved. Transport
// failures surface as errors so the caller can decide how to degrade.
func (r *Reconciler) Reconcile(ctx context.Context, bundle *EvidenceBundle) (*NormalizedMetadata, error) {
	prompt := BuildPrompt(r.userTemplate, bundle)

	content, err := r.completer.CompleteJSON(ctx, r.systemPrompt, prompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "reconcile", "complete", "llm request failed", err)
	}

	var parsed NormalizedMetadata
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		r.logger.Warn("model response was not valid JSON, keeping raw text",
			logging.String("run_id", bundle.RunID),
			logging.Error(err))
		return &NormalizedMetadata{
			Title:    "Unknown",
			Artist:   "Unknown",
			Comments: "Failed to parse model JSON response",
			Raw:      content,
		}, nil
	}

	parsed.Raw = content
	if strings.TrimSpace(parsed.Title) == "" {
		parsed.Title = "Unknown"
	}
	if strings.TrimSpace(parsed.Artist) == "" {
		parsed.Artist = "Unknown"
	}
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	return &parsed, nil
}
