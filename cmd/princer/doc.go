// Package main hosts the princer CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the identification pipeline: probing
// audio files, fuzzy-searching the PrinceVault corpus, running the full
// fingerprint-to-reconciliation flow, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
package main
