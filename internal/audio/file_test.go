package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"princer/internal/services"
)

func TestIsSupported(t *testing.T) {
	for _, path := range []string{"a.mp3", "b.FLAC", "/x/y/c.m4a", "d.wav", "e.ogg"} {
		if !IsSupported(path) {
			t.Errorf("IsSupported(%q) = false", path)
		}
	}
	for _, path := range []string{"a.txt", "b.aiff", "noext", ""} {
		if IsSupported(path) {
			t.Errorf("IsSupported(%q) = true", path)
		}
	}
}

func TestProbeUntaggedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1983-08-03 First Avenue.mp3")
	payload := []byte("not a real mp3 stream")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Filename != "1983-08-03 First Avenue" {
		t.Errorf("filename = %q", info.Filename)
	}
	if info.Extension != ".mp3" {
		t.Errorf("extension = %q", info.Extension)
	}
	if info.SizeBytes != int64(len(payload)) {
		t.Errorf("size = %d", info.SizeBytes)
	}
	if len(info.Tags) != 0 {
		t.Errorf("expected no tags, got %v", info.Tags)
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "absent.flac"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProbeUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Probe(path); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBitrateKbps(t *testing.T) {
	info := &Info{SizeBytes: 1_000_000, DurationSeconds: 100}
	if got := info.BitrateKbps(); got != 80 {
		t.Errorf("bitrate = %d, want 80", got)
	}
	unknown := &Info{SizeBytes: 1_000_000}
	if got := unknown.BitrateKbps(); got != 0 {
		t.Errorf("bitrate without duration = %d, want 0", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "Unknown"},
		{59, "0:59"},
		{245.7, "4:05"},
		{3725, "1:02:05"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := FormatSize(tc.size); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}
