package acoustid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"princer/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the settings needed to fingerprint files and query the
// AcoustID lookup API.
type Config struct {
	APIKey       string
	BaseURL      string
	FpcalcBinary string
}

// Match is one candidate identity from an AcoustID lookup.
type Match struct {
	Score        float64
	RecordingIDs []string
	Title        string
	Artist       string
}

// Result bundles the computed fingerprint with its lookup matches.
type Result struct {
	Fingerprint string
	Duration    float64
	Matches     []Match
}

// FingerprintFunc computes the raw fpcalc JSON output for a file. It exists
// so tests can avoid the external binary.
type FingerprintFunc func(ctx context.Context, path string) ([]byte, error)

// Client fingerprints audio files with fpcalc and resolves candidate
// recordings through the AcoustID web service. Every failure is wrapped as a
// fingerprint error: without a fingerprint there is no identification basis,
// so callers treat these as fatal for the file.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	fingerprint FingerprintFunc
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

// WithFingerprintFunc overrides how the raw fingerprint is computed.
func WithFingerprintFunc(fn FingerprintFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.fingerprint = fn
		}
	}
}

// NewClient constructs a client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:       strings.TrimSpace(cfg.APIKey),
			BaseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			FpcalcBinary: strings.TrimSpace(cfg.FpcalcBinary),
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.acoustid.org/v2"
	}
	if client.cfg.FpcalcBinary == "" {
		client.cfg.FpcalcBinary = "fpcalc"
	}
	if client.fingerprint == nil {
		client.fingerprint = client.runFpcalc
	}
	return client
}

type fpcalcOutput struct {
	Duration    float64 `json:"duration"`
	Fingerprint string  `json:"fingerprint"`
}

type lookupResponse struct {
	Status  string `json:"status"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
	Results []struct {
		ID         string  `json:"id"`
		Score      float64 `json:"score"`
		Recordings []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"recordings"`
	} `json:"results"`
}

// Identify fingerprints the file and looks up candidate recordings. Matches
// come back sorted by descending score.
func (c *Client) Identify(ctx context.Context, path string) (*Result, error) {
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "identify", "api key not configured", nil)
	}

	raw, err := c.fingerprint(ctx, path)
	if err != nil {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "fpcalc", fmt.Sprintf("fingerprint %s", path), err)
	}
	var fp fpcalcOutput
	if err := json.Unmarshal(raw, &fp); err != nil {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "fpcalc", "parse fpcalc output", err)
	}
	if fp.Fingerprint == "" {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "fpcalc", "fpcalc produced no fingerprint", nil)
	}

	matches, err := c.lookup(ctx, fp)
	if err != nil {
		return nil, err
	}
	return &Result{
		Fingerprint: fp.Fingerprint,
		Duration:    fp.Duration,
		Matches:     matches,
	}, nil
}

func (c *Client) runFpcalc(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.cfg.FpcalcBinary, "-json", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

func (c *Client) lookup(ctx context.Context, fp fpcalcOutput) ([]Match, error) {
	params := url.Values{}
	params.Set("client", c.cfg.APIKey)
	params.Set("meta", "recordings")
	params.Set("duration", strconv.Itoa(int(fp.Duration)))
	params.Set("fingerprint", fp.Fingerprint)

	endpoint := c.cfg.BaseURL + "/lookup?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "lookup", "build request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "lookup", "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "lookup", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "lookup",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "lookup", "decode response", err)
	}
	if parsed.Status != "ok" {
		message := "status " + parsed.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return nil, services.Wrap(services.ErrFingerprint, "acoustid", "lookup", message, nil)
	}

	matches := make([]Match, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		match := Match{Score: result.Score}
		for _, recording := range result.Recordings {
			if recording.ID != "" {
				match.RecordingIDs = append(match.RecordingIDs, recording.ID)
			}
			if match.Title == "" {
				match.Title = recording.Title
			}
			if match.Artist == "" && len(recording.Artists) > 0 {
				match.Artist = recording.Artists[0].Name
			}
		}
		matches = append(matches, match)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}
