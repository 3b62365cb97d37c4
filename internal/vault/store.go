package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"princer/internal/services"
)

// Store reads song entries from the vault SQLite database. The corpus is
// read-only; the store never writes.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the vault database at path. A missing file reports
// ErrUnavailable so callers can degrade to empty search results.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "vault", "open", fmt.Sprintf("database not found at %s", path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "vault", "open", "open sqlite db", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrUnavailable, "vault", "open", "apply busy_timeout pragma", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const songColumns = "id, title, content, page_id, revision_id, timestamp, contributor"

// AllSongs returns every song row in the corpus. Row order is unspecified;
// callers that need ordering sort for themselves.
func (s *Store) AllSongs(ctx context.Context) ([]*Song, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+songColumns+" FROM songs")
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "vault", "all-songs", "query songs", err)
	}
	defer rows.Close()

	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrUnavailable, "vault", "all-songs", "scan song row", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "vault", "all-songs", "iterate song rows", err)
	}
	return songs, nil
}

// SongByID fetches a single song. A missing id reports ErrNotFound.
func (s *Store) SongByID(ctx context.Context, id int64) (*Song, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+songColumns+" FROM songs WHERE id = ?", id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "vault", "song-by-id", fmt.Sprintf("song %d", id), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "vault", "song-by-id", "scan song row", err)
	}
	return song, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*Song, error) {
	var song Song
	if err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Content,
		&song.PageID,
		&song.RevisionID,
		&song.Timestamp,
		&song.Contributor,
	); err != nil {
		return nil, err
	}
	return &song, nil
}
