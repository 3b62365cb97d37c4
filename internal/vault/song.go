package vault

import "sync"

// Song is one wiki entry from the vault corpus. Identity fields come straight
// from the database row; structured metadata is parsed out of Content on first
// access and cached.
type Song struct {
	ID          int64
	PageID      int64
	RevisionID  int64
	Timestamp   string
	Contributor string
	Title       string
	Content     string

	parseOnce sync.Once
	meta      *Metadata
}

// Metadata holds the structured fields parsed from a song's wiki markup.
// Every field is optional; an empty value means the pattern did not match.
type Metadata struct {
	Performer        string
	WrittenBy        string
	ProducedBy       string
	RecordingDate    string
	SessionInfo      string
	Personnel        []string
	AlbumAppearances []string
	RelatedVersions  []string
	Categories       []string
}

// Metadata parses the song's content on first call and returns the cached
// result thereafter. Parsing is a pure function of Content.
func (s *Song) Metadata() *Metadata {
	s.parseOnce.Do(func() {
		s.meta = ExtractMetadata(s.Content)
	})
	return s.meta
}
