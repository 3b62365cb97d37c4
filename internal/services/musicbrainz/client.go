package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"princer/internal/logging"
	"princer/internal/services"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxReleasesKept    = 3
)

// Config captures the settings for the MusicBrainz web service client.
type Config struct {
	BaseURL     string
	UserAgent   string
	RateLimitMS int
}

// Release is a condensed release entry attached to a recording.
type Release struct {
	ID     string
	Title  string
	Date   string
	Status string
}

// Recording is the detailed record for one MusicBrainz recording id.
type Recording struct {
	ID             string
	Title          string
	ArtistName     string
	ArtistID       string
	LengthMS       int
	Disambiguation string
	Date           string
	Releases       []Release
}

// Client queries the MusicBrainz web service for recording details,
// throttled to the service's public rate limit.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *throttle
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit overrides the minimum interval between requests. Zero
// disables throttling (useful for tests).
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		c.limiter = newThrottle(interval)
	}
}

// WithLogger attaches a logger for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.WithComponent(logger, "musicbrainz")
		}
	}
}

// NewClient constructs a client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	interval := time.Duration(cfg.RateLimitMS) * time.Millisecond
	if cfg.RateLimitMS <= 0 {
		interval = time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			UserAgent:   strings.TrimSpace(cfg.UserAgent),
			RateLimitMS: cfg.RateLimitMS,
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    newThrottle(interval),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://musicbrainz.org/ws/2"
	}
	if client.cfg.UserAgent == "" {
		client.cfg.UserAgent = "princer/1.0 (https://github.com/kcverde/princer)"
	}
	return client
}

type recordingResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Length         int    `json:"length"`
	Disambiguation string `json:"disambiguation"`
	ArtistCredit   []struct {
		Artist struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"artist-credit"`
	Releases []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Date   string `json:"date"`
		Status string `json:"status"`
	} `json:"releases"`
}

// LookupRecordings fetches details for each recording id in turn. Failures
// are per-id: a failed lookup is recorded and the rest proceed, so callers
// can get partial results alongside a joined error.
func (c *Client) LookupRecordings(ctx context.Context, recordingIDs []string) ([]Recording, error) {
	var (
		recordings []Recording
		errs       []error
	)
	for _, id := range recordingIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := c.limiter.wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		c.logger.Info("looking up recording", logging.String("recording_id", id))

		recording, err := c.lookupRecording(ctx, id)
		if err != nil {
			c.logger.Warn("recording lookup failed",
				logging.String("recording_id", id),
				logging.Error(err))
			errs = append(errs, err)
			continue
		}
		recordings = append(recordings, *recording)
	}
	return recordings, errors.Join(errs...)
}

func (c *Client) lookupRecording(ctx context.Context, id string) (*Recording, error) {
	endpoint := fmt.Sprintf("%s/recording/%s?inc=artist-credits+releases&fmt=json",
		c.cfg.BaseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "lookup", "build request", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "lookup", fmt.Sprintf("recording %s", id), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "lookup", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "lookup",
			fmt.Sprintf("recording %s: http %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var parsed recordingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "musicbrainz", "lookup", "decode response", err)
	}
	return parseRecording(parsed), nil
}

func parseRecording(parsed recordingResponse) *Recording {
	recording := &Recording{
		ID:             parsed.ID,
		Title:          parsed.Title,
		ArtistName:     "Unknown Artist",
		LengthMS:       parsed.Length,
		Disambiguation: parsed.Disambiguation,
	}
	if recording.Title == "" {
		recording.Title = "Unknown Title"
	}
	if len(parsed.ArtistCredit) > 0 {
		artist := parsed.ArtistCredit[0].Artist
		if artist.Name != "" {
			recording.ArtistName = artist.Name
		}
		recording.ArtistID = artist.ID
	}

	for i, release := range parsed.Releases {
		if i >= maxReleasesKept {
			break
		}
		recording.Releases = append(recording.Releases, Release{
			ID:     release.ID,
			Title:  release.Title,
			Date:   release.Date,
			Status: release.Status,
		})
	}
	for _, release := range recording.Releases {
		if release.Date != "" {
			recording.Date = release.Date
			break
		}
	}
	return recording
}
