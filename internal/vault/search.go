package vault

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"princer/internal/logging"
	"princer/internal/match"
)

// SongSource supplies the candidate corpus for a search.
type SongSource interface {
	AllSongs(ctx context.Context) ([]*Song, error)
}

// SearchResult is one scored candidate from a title search.
type SearchResult struct {
	Song       *Song
	Confidence float64
	Reason     string
}

// Matcher runs fuzzy title searches over the vault corpus.
type Matcher struct {
	source   SongSource
	resolver *match.Resolver
	logger   *slog.Logger
}

// NewMatcher builds a Matcher over source. A nil logger disables logging.
func NewMatcher(source SongSource, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matcher{
		source:   source,
		resolver: match.NewResolver(),
		logger:   logging.WithComponent(logger, "vault-matcher"),
	}
}

// SearchByTitle scores every corpus entry against the query and its search
// variants, keeping the best result per song. Results below minConfidence are
// dropped; the rest are sorted by descending confidence, content matches
// winning ties, and truncated to limit. Storage errors degrade to an empty
// result list so a search never blocks the pipeline.
func (m *Matcher) SearchByTitle(ctx context.Context, query string, limit int, minConfidence float64) []SearchResult {
	songs, err := m.source.AllSongs(ctx)
	if err != nil {
		m.logger.Warn("vault search degraded to empty results",
			logging.String("query", query),
			logging.Error(err))
		return nil
	}

	primary := match.Normalize(query)
	variants := searchVariants(query, primary)

	best := make(map[int64]SearchResult)
	for _, variant := range variants {
		for _, song := range songs {
			res := m.resolver.Resolve(variant, song.Title, song.Content)
			if res.Confidence < minConfidence {
				continue
			}
			if current, ok := best[song.ID]; ok && current.Confidence >= res.Confidence {
				continue
			}
			usedVariant := ""
			if variant != primary {
				usedVariant = variant
			}
			best[song.ID] = SearchResult{
				Song:       song,
				Confidence: res.Confidence,
				Reason:     res.Reason(usedVariant),
			}
		}
	}

	results := make([]SearchResult, 0, len(best))
	for _, result := range best {
		results = append(results, result)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		ci, cj := hasContentMatch(results[i]), hasContentMatch(results[j])
		if ci != cj {
			return ci
		}
		// Remaining ties order by song id so truncation is reproducible.
		return results[i].Song.ID < results[j].Song.ID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func hasContentMatch(r SearchResult) bool {
	return strings.Contains(r.Reason, "+ content match")
}

// searchVariants expands a compound-word query into alternates. A raw query
// like "BoomStratus" also searches as "boom stratus" and "boom / stratus",
// matching how medley entries title their segments.
func searchVariants(raw, primary string) []string {
	variants := []string{primary}
	if len([]rune(primary)) <= 6 || !isAlpha(primary) {
		return variants
	}
	spaced := deCamelCase(raw)
	if spaced != raw {
		variants = append(variants, match.Normalize(spaced))
	}
	if strings.Contains(spaced, " ") {
		variants = append(variants, match.Normalize(strings.ReplaceAll(spaced, " ", " / ")))
	}
	return variants
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// deCamelCase inserts a space before each lowercase-to-uppercase transition.
func deCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
