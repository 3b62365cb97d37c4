// Package services holds the error taxonomy shared by the external service
// clients (acoustid, musicbrainz, llm) and its subpackages implement those
// clients.
package services
