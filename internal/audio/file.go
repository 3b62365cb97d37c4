package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"princer/internal/services"
)

var supportedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".wav":  true,
	".ogg":  true,
}

// Info is everything we can learn about an audio file without decoding it.
// DurationSeconds starts at zero and is filled in by the caller once the
// fingerprint step has measured it.
type Info struct {
	Path            string
	Filename        string
	Extension       string
	SizeBytes       int64
	Tags            map[string]string
	DurationSeconds float64
}

// IsSupported reports whether the file extension is one we can process.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions lists the accepted file extensions in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Probe reads file metadata and embedded tags. A file whose tags cannot be
// parsed still probes successfully with an empty tag map; only a missing or
// unsupported file is an error.
func Probe(path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "audio", "probe", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, services.Wrap(services.ErrConfiguration, "audio", "probe",
			fmt.Sprintf("unsupported file format %q", ext), nil)
	}

	info := &Info{
		Path:      path,
		Filename:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Extension: ext,
		SizeBytes: stat.Size(),
		Tags:      map[string]string{},
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "audio", "probe", path, err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		// Untagged files are normal; identification proceeds without tags.
		return info, nil
	}
	info.Tags = flattenTags(meta)
	return info, nil
}

func flattenTags(meta tag.Metadata) map[string]string {
	tags := make(map[string]string)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			tags[key] = value
		}
	}
	set("title", meta.Title())
	set("artist", meta.Artist())
	set("album", meta.Album())
	set("album_artist", meta.AlbumArtist())
	set("composer", meta.Composer())
	set("genre", meta.Genre())
	set("comment", meta.Comment())
	if year := meta.Year(); year > 0 {
		tags["year"] = strconv.Itoa(year)
	}
	if track, total := meta.Track(); track > 0 {
		if total > 0 {
			tags["track"] = fmt.Sprintf("%d/%d", track, total)
		} else {
			tags["track"] = strconv.Itoa(track)
		}
	}
	if disc, total := meta.Disc(); disc > 0 {
		if total > 0 {
			tags["disc"] = fmt.Sprintf("%d/%d", disc, total)
		} else {
			tags["disc"] = strconv.Itoa(disc)
		}
	}
	return tags
}

// BitrateKbps estimates the stream bitrate from file size and duration.
// Returns zero when the duration is unknown.
func (i *Info) BitrateKbps() int {
	if i == nil || i.DurationSeconds <= 0 || i.SizeBytes <= 0 {
		return 0
	}
	return int(float64(i.SizeBytes) * 8 / i.DurationSeconds / 1000)
}

// FormatDuration renders seconds as M:SS, or H:MM:SS past the hour mark.
// Unknown durations render as "Unknown".
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "Unknown"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatSize renders a byte count in human readable units.
func FormatSize(sizeBytes int64) string {
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
