// Package musicbrainz fetches recording details from the MusicBrainz web
// service. Lookups respect the public one-request-per-second rate limit and
// degrade per id, so one bad recording never sinks a whole batch.
package musicbrainz
