package vault

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"princer/internal/services"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	schema := `CREATE TABLE songs (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		page_id INTEGER NOT NULL,
		revision_id INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		contributor TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	rows := [][]any{
		{int64(1), "Purple Rain", "| performer = [[Prince]]", int64(101), int64(1001), "2024-01-01T00:00:00Z", "editor-a"},
		{int64(2), "Darling Nikki", "Album track.", int64(102), int64(1002), "2024-01-02T00:00:00Z", "editor-b"},
	}
	for _, row := range rows {
		if _, err := db.Exec(
			"INSERT INTO songs (id, title, content, page_id, revision_id, timestamp, contributor) VALUES (?, ?, ?, ?, ?, ?, ?)",
			row...,
		); err != nil {
			t.Fatalf("insert fixture row: %v", err)
		}
	}
	return path
}

func TestStoreAllSongs(t *testing.T) {
	store, err := Open(newTestDB(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	songs, err := store.AllSongs(context.Background())
	if err != nil {
		t.Fatalf("AllSongs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
	byID := make(map[int64]*Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}
	purple := byID[1]
	if purple == nil || purple.Title != "Purple Rain" || purple.PageID != 101 || purple.Contributor != "editor-a" {
		t.Fatalf("unexpected song 1: %+v", purple)
	}
	if purple.Metadata().Performer != "Prince" {
		t.Fatalf("performer = %q", purple.Metadata().Performer)
	}
}

func TestStoreSongByID(t *testing.T) {
	store, err := Open(newTestDB(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	song, err := store.SongByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("SongByID: %v", err)
	}
	if song.Title != "Darling Nikki" {
		t.Fatalf("title = %q", song.Title)
	}

	if _, err := store.SongByID(context.Background(), 99); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing id should report not found, got %v", err)
	}
}

func TestStoreOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("missing database should report unavailable, got %v", err)
	}
}
