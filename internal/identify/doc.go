// Package identify runs the per-file identification pipeline: fingerprint
// the audio, gather supporting evidence from the canonical metadata service
// and the wiki corpus, and reconcile everything into normalized metadata via
// a language model. One file is processed start to finish; there is no
// internal parallelism.
package identify
