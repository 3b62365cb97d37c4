package identify

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"princer/internal/audio"
	"princer/internal/logging"
	"princer/internal/services/acoustid"
	"princer/internal/services/musicbrainz"
	"princer/internal/vault"
)

const (
	strongMatchThreshold = 0.8
	maxStrongMatches     = 3
	maxSearchTerms       = 2
	wikiSearchLimit      = 3
	wikiMinConfidence    = 0.7
	maxWikiMatches       = 3
	excerptLimit         = 500
)

// Fingerprinter computes an acoustic fingerprint and its lookup matches.
type Fingerprinter interface {
	Identify(ctx context.Context, path string) (*acoustid.Result, error)
}

// RecordingLookup fetches detailed records for recording ids.
type RecordingLookup interface {
	LookupRecordings(ctx context.Context, recordingIDs []string) ([]musicbrainz.Recording, error)
}

// WikiSearcher runs fuzzy title searches over the wiki corpus.
type WikiSearcher interface {
	SearchByTitle(ctx context.Context, query string, limit int, minConfidence float64) []vault.SearchResult
}

// Collector gathers evidence about one audio file from every configured
// source. Only the fingerprint source is mandatory; the metadata service and
// wiki matcher are optional and their absence just leaves sections empty.
type Collector struct {
	fingerprinter Fingerprinter
	recordings    RecordingLookup
	wiki          WikiSearcher
	maxRecordings int
	logger        *slog.Logger
}

// CollectorOption customizes a Collector.
type CollectorOption func(*Collector)

// WithRecordingLookup wires in the canonical metadata service.
func WithRecordingLookup(lookup RecordingLookup) CollectorOption {
	return func(c *Collector) {
		c.recordings = lookup
	}
}

// WithWikiSearcher wires in the wiki corpus matcher.
func WithWikiSearcher(searcher WikiSearcher) CollectorOption {
	return func(c *Collector) {
		c.wiki = searcher
	}
}

// WithMaxRecordings caps how many strong fingerprint matches feed the
// recording lookup. Zero or negative keeps the default.
func WithMaxRecordings(limit int) CollectorOption {
	return func(c *Collector) {
		if limit > 0 {
			c.maxRecordings = limit
		}
	}
}

// WithLogger attaches a logger for collection diagnostics.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logging.WithComponent(logger, "identify")
		}
	}
}

// NewCollector builds a Collector around the mandatory fingerprint source.
func NewCollector(fingerprinter Fingerprinter, opts ...CollectorOption) *Collector {
	collector := &Collector{
		fingerprinter: fingerprinter,
		maxRecordings: maxStrongMatches,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(collector)
	}
	return collector
}

// Collect assembles the evidence bundle for one file. A fingerprint failure
// aborts the run; every other source degrades to an empty section.
func (c *Collector) Collect(ctx context.Context, info *audio.Info) (*EvidenceBundle, error) {
	bundle := &EvidenceBundle{
		RunID: uuid.NewString(),
		File:  info,
	}

	fingerprint, err := c.fingerprinter.Identify(ctx, info.Path)
	if err != nil {
		return nil, err
	}
	bundle.Fingerprint = fingerprint
	if info.DurationSeconds == 0 {
		info.DurationSeconds = fingerprint.Duration
	}
	c.logger.Info("fingerprint resolved",
		logging.String("file", info.Filename),
		logging.Int("matches", len(fingerprint.Matches)))

	c.collectRecordings(ctx, bundle)
	c.collectWikiMatches(ctx, bundle)
	return bundle, nil
}

func (c *Collector) collectRecordings(ctx context.Context, bundle *EvidenceBundle) {
	if c.recordings == nil || len(bundle.Fingerprint.Matches) == 0 {
		return
	}

	var recordingIDs []string
	seen := make(map[string]bool)
	strong := 0
	for _, match := range bundle.Fingerprint.Matches {
		if match.Score < strongMatchThreshold {
			continue
		}
		if strong++; strong > c.maxRecordings {
			break
		}
		for _, id := range match.RecordingIDs {
			if !seen[id] {
				seen[id] = true
				recordingIDs = append(recordingIDs, id)
			}
		}
	}
	if len(recordingIDs) == 0 {
		return
	}

	recordings, err := c.recordings.LookupRecordings(ctx, recordingIDs)
	if err != nil {
		c.logger.Warn("recording lookup degraded", logging.Error(err))
	}
	bundle.Recordings = recordings
}

func (c *Collector) collectWikiMatches(ctx context.Context, bundle *EvidenceBundle) {
	if c.wiki == nil {
		return
	}

	terms := c.searchTerms(bundle)
	var accumulated []vault.SearchResult
	for _, term := range terms {
		results := c.wiki.SearchByTitle(ctx, term, wikiSearchLimit, wikiMinConfidence)
		accumulated = append(accumulated, results...)
		if bundle.WikiExcerpt == "" && len(results) > 0 {
			bundle.WikiExcerpt = excerpt(results[0].Song.Content, excerptLimit)
		}
	}

	best := make(map[int64]vault.SearchResult)
	for _, result := range accumulated {
		if current, ok := best[result.Song.ID]; !ok || result.Confidence > current.Confidence {
			best[result.Song.ID] = result
		}
	}
	deduped := make([]vault.SearchResult, 0, len(best))
	for _, result := range best {
		deduped = append(deduped, result)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Confidence != deduped[j].Confidence {
			return deduped[i].Confidence > deduped[j].Confidence
		}
		// Remaining ties order by song id so truncation is reproducible.
		return deduped[i].Song.ID < deduped[j].Song.ID
	})
	if len(deduped) > maxWikiMatches {
		deduped = deduped[:maxWikiMatches]
	}
	bundle.WikiMatches = deduped
}

// searchTerms picks up to two usable fingerprint titles, falling back to the
// filename stem when the fingerprint gave nothing to search with.
func (c *Collector) searchTerms(bundle *EvidenceBundle) []string {
	var terms []string
	for _, match := range bundle.Fingerprint.Matches {
		title := strings.TrimSpace(match.Title)
		if title == "" || strings.EqualFold(title, "unknown") {
			continue
		}
		terms = append(terms, title)
		if len(terms) == maxSearchTerms {
			return terms
		}
	}
	if len(terms) == 0 {
		terms = append(terms, bundle.File.Filename)
	}
	return terms
}

func excerpt(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
