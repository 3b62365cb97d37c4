// Package acoustid computes Chromaprint fingerprints via the fpcalc binary
// and resolves them to candidate recordings through the AcoustID web service.
package acoustid
