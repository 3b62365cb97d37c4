// Package audio probes audio files for size, format, and embedded tags.
package audio
