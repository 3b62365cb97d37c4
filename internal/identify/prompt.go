package identify

import (
	"fmt"
	"sort"
	"strings"
)

const (
	promptExcerptLimit   = 200
	promptMatchLimit     = 3
	promptReleaseLimit   = 2
	promptPersonnelLimit = 3
	promptAlbumLimit     = 2
	promptRelatedLimit   = 2
	promptCategoryLimit  = 5
)

// BuildPrompt renders the evidence bundle into the user prompt using the
// runtime-supplied template. Absent evidence sections render as explicit "no
// data" markers so the model always sees the same section layout.
func BuildPrompt(template string, bundle *EvidenceBundle) string {
	replacer := strings.NewReplacer(
		"{filename}", bundle.File.Filename+bundle.File.Extension,
		"{duration}", renderDuration(bundle),
		"{format}", strings.TrimPrefix(bundle.File.Extension, "."),
		"{bitrate}", renderBitrate(bundle),
		"{current_tags}", renderTags(bundle),
		"{acoustid_data}", renderFingerprintSection(bundle),
		"{musicbrainz_data}", renderRecordingSection(bundle),
		"{princevault_data}", renderWikiSection(bundle),
	)
	return replacer.Replace(template)
}

func renderDuration(bundle *EvidenceBundle) string {
	if bundle.File.DurationSeconds > 0 {
		return fmt.Sprintf("%.1f", bundle.File.DurationSeconds)
	}
	return "unknown"
}

func renderBitrate(bundle *EvidenceBundle) string {
	if kbps := bundle.File.BitrateKbps(); kbps > 0 {
		return fmt.Sprintf("%d kbps", kbps)
	}
	return "unknown"
}

func renderTags(bundle *EvidenceBundle) string {
	if len(bundle.File.Tags) == 0 {
		return "No tags present."
	}
	keys := make([]string, 0, len(bundle.File.Tags))
	for key := range bundle.File.Tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", key, bundle.File.Tags[key])
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFingerprintSection(bundle *EvidenceBundle) string {
	if bundle.Fingerprint == nil || len(bundle.Fingerprint.Matches) == 0 {
		return "No AcoustID data available."
	}
	var b strings.Builder
	b.WriteString("AcoustID matches:")
	for i, match := range bundle.Fingerprint.Matches {
		if i == promptMatchLimit {
			break
		}
		title := match.Title
		if title == "" {
			title = "Unknown"
		}
		artist := match.Artist
		if artist == "" {
			artist = "Unknown"
		}
		fmt.Fprintf(&b, "\n  %d. Title: %s | Artist: %s | Score: %.3f", i+1, title, artist, match.Score)
	}
	return b.String()
}

func renderRecordingSection(bundle *EvidenceBundle) string {
	if len(bundle.Recordings) == 0 {
		return "No MusicBrainz data available."
	}
	var b strings.Builder
	b.WriteString("MusicBrainz details:")
	for _, recording := range bundle.Recordings {
		fmt.Fprintf(&b, "\n  Recording ID: %s", recording.ID)
		fmt.Fprintf(&b, "\n  Title: %s", recording.Title)
		fmt.Fprintf(&b, "\n  Artist: %s", recording.ArtistName)
		fmt.Fprintf(&b, "\n  Date: %s", orUnknown(recording.Date))
		if recording.LengthMS > 0 {
			fmt.Fprintf(&b, "\n  Duration: %d ms", recording.LengthMS)
		} else {
			b.WriteString("\n  Duration: Unknown")
		}
		if recording.Disambiguation != "" {
			fmt.Fprintf(&b, "\n  Context: %s", recording.Disambiguation)
		}
		if len(recording.Releases) > 0 {
			b.WriteString("\n  Releases:")
			for i, release := range recording.Releases {
				if i == promptReleaseLimit {
					break
				}
				fmt.Fprintf(&b, "\n    - %s (%s)", release.Title, orUnknown(release.Date))
			}
		}
	}
	return b.String()
}

func renderWikiSection(bundle *EvidenceBundle) string {
	best := bundle.BestWikiMatch()
	if best == nil {
		return "No PrinceVault data available."
	}
	meta := best.Song.Metadata()

	var b strings.Builder
	b.WriteString("PrinceVault details:")
	fmt.Fprintf(&b, "\n  Title: %s", best.Song.Title)
	fmt.Fprintf(&b, "\n  Recording Date: %s", orUnknown(meta.RecordingDate))
	fmt.Fprintf(&b, "\n  Performer: %s", orUnknown(meta.Performer))
	fmt.Fprintf(&b, "\n  Confidence: %.2f", best.Confidence)
	if meta.SessionInfo != "" {
		fmt.Fprintf(&b, "\n  Session: %s", meta.SessionInfo)
	}
	if meta.WrittenBy != "" {
		fmt.Fprintf(&b, "\n  Written By: %s", meta.WrittenBy)
	}
	if meta.ProducedBy != "" {
		fmt.Fprintf(&b, "\n  Produced By: %s", meta.ProducedBy)
	}
	if len(meta.Personnel) > 0 {
		fmt.Fprintf(&b, "\n  Personnel: %s", joinLimited(meta.Personnel, promptPersonnelLimit, "; "))
	}
	if len(meta.AlbumAppearances) > 0 {
		fmt.Fprintf(&b, "\n  Albums: %s", joinLimited(meta.AlbumAppearances, promptAlbumLimit, "; "))
	}
	if len(meta.RelatedVersions) > 0 {
		fmt.Fprintf(&b, "\n  Related Versions: %s", joinLimited(meta.RelatedVersions, promptRelatedLimit, "; "))
	}
	if len(meta.Categories) > 0 {
		fmt.Fprintf(&b, "\n  Categories: %s", joinLimited(meta.Categories, promptCategoryLimit, ", "))
	}
	if bundle.WikiExcerpt != "" {
		fmt.Fprintf(&b, "\n  Raw Content Snippet: %s", excerpt(bundle.WikiExcerpt, promptExcerptLimit))
	}
	if len(bundle.WikiMatches) > 1 {
		b.WriteString("\n  Other candidates:")
		for _, other := range bundle.WikiMatches[1:] {
			fmt.Fprintf(&b, "\n    - %s (%.2f)", other.Song.Title, other.Confidence)
		}
	}
	return b.String()
}

func joinLimited(values []string, limit int, sep string) string {
	if len(values) > limit {
		values = values[:limit]
	}
	return strings.Join(values, sep)
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	return value
}
