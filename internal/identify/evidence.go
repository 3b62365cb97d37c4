package identify

import (
	"princer/internal/audio"
	"princer/internal/services/acoustid"
	"princer/internal/services/musicbrainz"
	"princer/internal/vault"
)

// EvidenceBundle is the per-file aggregate of all source data assembled
// before reconciliation. Every section besides File and Fingerprint may be
// empty; absence of secondary evidence is normal, not an error.
type EvidenceBundle struct {
	RunID       string
	File        *audio.Info
	Fingerprint *acoustid.Result
	Recordings  []musicbrainz.Recording
	WikiMatches []vault.SearchResult
	WikiExcerpt string
}

// BestFingerprintMatch returns the highest-scoring fingerprint match, or nil.
func (b *EvidenceBundle) BestFingerprintMatch() *acoustid.Match {
	if b == nil || b.Fingerprint == nil || len(b.Fingerprint.Matches) == 0 {
		return nil
	}
	return &b.Fingerprint.Matches[0]
}

// BestWikiMatch returns the highest-confidence wiki match, or nil.
func (b *EvidenceBundle) BestWikiMatch() *vault.SearchResult {
	if b == nil || len(b.WikiMatches) == 0 {
		return nil
	}
	return &b.WikiMatches[0]
}
