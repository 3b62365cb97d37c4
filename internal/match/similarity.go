package match

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Scores holds the four string-similarity measures computed between the
// normalized forms of a query and a candidate title, each in [0,1].
type Scores struct {
	Ratio     float64
	Partial   float64
	TokenSort float64
	TokenSet  float64
}

// Score computes the four measures on the normalized forms of query and
// candidate.
func Score(query, candidate string) Scores {
	q := Normalize(query)
	c := Normalize(candidate)
	return scoreNormalized(q, c)
}

func scoreNormalized(q, c string) Scores {
	return Scores{
		Ratio:     levenshteinRatio(q, c),
		Partial:   partialRatio(q, c),
		TokenSort: levenshteinRatio(sortTokens(q), sortTokens(c)),
		TokenSet:  tokenSetRatio(q, c),
	}
}

// levenshteinRatio converts edit distance into a similarity in [0,1].
// Identical strings score 1.0, fully disjoint strings approach 0.0.
func levenshteinRatio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	if la == 0 || lb == 0 {
		return 0.0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := edlib.LevenshteinDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// partialRatio finds the best alignment of the shorter string against
// same-length windows of the longer one, so a candidate containing the query
// as a substring (or vice versa) scores high.
func partialRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	shorter, longer := ra, rb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return levenshteinRatio(string(shorter), string(longer))
	}
	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if score := levenshteinRatio(string(shorter), window); score > best {
			best = score
			if best == 1.0 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSetRatio compares the sorted intersection of both token sets against
// each full sorted token set, tolerating repeated or extra words.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	var intersection, diffA, diffB []string
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection = append(intersection, token)
		} else {
			diffA = append(diffA, token)
		}
	}
	for token := range setB {
		if _, ok := setA[token]; !ok {
			diffB = append(diffB, token)
		}
	}
	sort.Strings(intersection)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(intersection, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(diffB, " "))

	best := levenshteinRatio(combinedA, combinedB)
	if base != "" {
		if score := levenshteinRatio(base, combinedA); score > best {
			best = score
		}
		if score := levenshteinRatio(base, combinedB); score > best {
			best = score
		}
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	tokens := strings.Fields(s)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// ContentBonus rewards candidates whose raw content contains the query. The
// whitespace-stripped lowercase check catches compound-word titles hidden in
// medley or tracklist text; the uppercase check catches verbatim mentions.
func ContentBonus(query, content string) float64 {
	if query == "" || content == "" {
		return 0.0
	}
	strippedQuery := stripWhitespace(strings.ToLower(query))
	strippedContent := stripWhitespace(strings.ToLower(content))
	if strippedQuery != "" && strings.Contains(strippedContent, strippedQuery) {
		return 0.5
	}
	if strings.Contains(strings.ToUpper(content), strings.ToUpper(query)) {
		return 0.3
	}
	return 0.0
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
