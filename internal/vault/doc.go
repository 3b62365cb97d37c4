// Package vault reads the wiki song corpus from its SQLite snapshot, parses
// structured metadata out of raw wiki markup, and answers fuzzy title
// searches with confidence-scored results.
package vault
