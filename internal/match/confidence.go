package match

import (
	"fmt"
	"strings"
)

// CombineFunc reduces the four similarity measures to a single base score.
type CombineFunc func(Scores) float64

// Resolver turns pairwise similarity measures into a final confidence score
// with a human-readable explanation.
type Resolver struct {
	combine CombineFunc
}

// NewResolver returns a Resolver using the staged combination strategy.
func NewResolver() *Resolver {
	return &Resolver{combine: CombineStaged}
}

// NewResolverWith returns a Resolver using a custom combination strategy.
func NewResolverWith(combine CombineFunc) *Resolver {
	return &Resolver{combine: combine}
}

// Resolution is the outcome of scoring one candidate against a query. Base is
// the combined score before length penalties; Confidence is the final value
// after penalties and any content bonus.
type Resolution struct {
	Confidence float64
	Base       float64
	Bonus      float64
	Scores     Scores
}

// CombineStaged picks the base score by descending down trust tiers: a strong
// whole-string match wins outright, then a decent whole-string match, then a
// strong substring alignment, and finally the best of all four measures with
// weights reflecting how easily each one produces false positives.
func CombineStaged(s Scores) float64 {
	switch {
	case s.Ratio >= 0.9:
		return s.Ratio
	case s.Ratio >= 0.7:
		return s.Ratio * 0.9
	case s.Partial >= 0.85:
		return s.Partial * 0.6
	default:
		base := s.Ratio * 0.8
		if v := s.Partial * 0.4; v > base {
			base = v
		}
		if v := s.TokenSort * 0.5; v > base {
			base = v
		}
		if v := s.TokenSet * 0.4; v > base {
			base = v
		}
		return base
	}
}

// CombineWeightedMax is the flat strategy CombineStaged replaced: a single
// weighted maximum with no tiering, kept selectable for comparison runs.
func CombineWeightedMax(s Scores) float64 {
	base := s.Ratio
	if v := s.Partial * 0.9; v > base {
		base = v
	}
	if v := s.TokenSort * 0.95; v > base {
		base = v
	}
	if v := s.TokenSet * 0.85; v > base {
		base = v
	}
	return base
}

// Resolve scores candidate against query. content, when non-empty, is the
// candidate's full page text and can earn a containment bonus. Short or
// badly length-mismatched candidates are penalized, and the bonus only
// applies when the base score already clears a floor.
func (r *Resolver) Resolve(query, candidate, content string) Resolution {
	normQuery := Normalize(query)
	normCandidate := Normalize(candidate)
	scores := scoreNormalized(normQuery, normCandidate)

	base := r.combine(scores)
	confidence := base * lengthPenalty(normQuery, normCandidate) * lengthDiffPenalty(normQuery, normCandidate)

	bonus := 0.0
	if content != "" {
		bonus = ContentBonus(query, content)
	}
	if bonus > 0 && base >= 0.3 {
		confidence *= 1 + bonus*0.3
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Resolution{
		Confidence: confidence,
		Base:       base,
		Bonus:      bonus,
		Scores:     scores,
	}
}

// lengthPenalty guards against trivially short candidates matching long
// queries through substring alignment. The first matching rule wins.
func lengthPenalty(query, candidate string) float64 {
	lc := len([]rune(candidate))
	lq := len([]rune(query))
	switch {
	case lc <= 3 && lq > 8:
		return 0.3
	case lc <= 6 && lq > 12:
		return 0.7
	default:
		return 1.0
	}
}

// lengthDiffPenalty dampens pairs whose lengths diverge too far to be the
// same title.
func lengthDiffPenalty(query, candidate string) float64 {
	lq := len([]rune(query))
	lc := len([]rune(candidate))
	if lq == 0 || lc == 0 {
		return 1.0
	}
	shorter, longer := lq, lc
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	ratio := float64(shorter) / float64(longer)
	switch {
	case ratio < 0.5:
		return 0.5
	case ratio < 0.7:
		return 0.8
	default:
		return 1.0
	}
}

// Reason renders the resolution as a short explanation string. variant is the
// search variant that produced the match; pass "" when the primary query
// matched directly.
func (res Resolution) Reason(variant string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title match (%.2f)", res.Confidence)
	if variant != "" {
		fmt.Fprintf(&b, " via '%s'", variant)
	}
	if res.Bonus > 0 {
		b.WriteString(" + content match")
		return b.String()
	}
	// Name the measure that carried the base score outright. Discounted
	// tiers leave no marker since no single measure equals the base.
	switch res.Base {
	case res.Scores.Ratio:
		b.WriteString(" - exact")
	case res.Scores.Partial:
		b.WriteString(" - partial")
	case res.Scores.TokenSort:
		b.WriteString(" - word order")
	case res.Scores.TokenSet:
		b.WriteString(" - token set")
	}
	return b.String()
}
