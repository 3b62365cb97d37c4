package match

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	bracketedPattern     = regexp.MustCompile(`\s*\[[^\]]*\]\s*`)
	leadingArticle       = regexp.MustCompile(`^(?:the|a|an)\s+`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// Normalize prepares a title for fuzzy comparison: lowercases, removes
// parenthetical and bracketed asides, strips a single leading article, and
// collapses whitespace. Total over any input; empty in, empty out.
func Normalize(title string) string {
	if title == "" {
		return ""
	}
	cleaned := strings.ToLower(title)
	cleaned = parentheticalPattern.ReplaceAllString(cleaned, " ")
	cleaned = bracketedPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = leadingArticle.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
