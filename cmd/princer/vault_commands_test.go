package main

import (
	"encoding/json"
	"testing"
)

func TestSearchCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "Purple Rain"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Purple Rain")
	requireContains(t, out, "1.00")
}

func TestSearchCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "Purple Rain", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}

	var results []searchResultPayload
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].SongID != 1 {
		t.Fatalf("SongID = %d, want 1", results[0].SongID)
	}
	if results[0].Confidence != 1.0 {
		t.Fatalf("Confidence = %.2f, want 1.00", results[0].Confidence)
	}
}

func TestSearchCommandNoMatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "Completely Unrelated Query Text"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No matches")
}

func TestSongCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"song", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("song: %v", err)
	}
	requireContains(t, out, "Purple Rain")
	requireContains(t, out, "Performer")
	requireContains(t, out, "Prince")
}

func TestSongCommandMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"song", "999"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown song id")
	}
}

func TestSongCommandInvalidID(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"song", "abc"}, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
