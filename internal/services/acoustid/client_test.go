package acoustid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"princer/internal/services"
)

const fpcalcJSON = `{"duration": 245.7, "fingerprint": "AQABz0qUkZK4oOfhL-CPc4e5C_wW2H2QH9uFL4cvoT8UNQ"}`

func fakeFingerprint(output string, err error) FingerprintFunc {
	return func(context.Context, string) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(output), nil
	}
}

func TestIdentify(t *testing.T) {
	var query struct {
		client      string
		meta        string
		duration    string
		fingerprint string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		query.client = r.URL.Query().Get("client")
		query.meta = r.URL.Query().Get("meta")
		query.duration = r.URL.Query().Get("duration")
		query.fingerprint = r.URL.Query().Get("fingerprint")
		w.Write([]byte(`{
			"status": "ok",
			"results": [
				{"id": "r1", "score": 0.87, "recordings": [
					{"id": "mbid-1", "title": "Purple Rain", "artists": [{"name": "Prince"}]},
					{"id": "mbid-2", "title": "Purple Rain (single)", "artists": [{"name": "Prince"}]}
				]},
				{"id": "r2", "score": 0.95, "recordings": [
					{"id": "mbid-3", "title": "Purple Rain", "artists": [{"name": "Prince and The Revolution"}]}
				]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "key", BaseURL: server.URL},
		WithFingerprintFunc(fakeFingerprint(fpcalcJSON, nil)),
	)
	result, err := client.Identify(context.Background(), "/music/purple_rain.flac")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}

	if query.client != "key" || query.meta != "recordings" || query.duration != "245" {
		t.Errorf("lookup query = %+v", query)
	}
	if query.fingerprint == "" {
		t.Errorf("fingerprint not sent")
	}
	if result.Duration != 245.7 {
		t.Errorf("duration = %v", result.Duration)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("matches = %d", len(result.Matches))
	}
	if result.Matches[0].Score != 0.95 {
		t.Errorf("matches not sorted by score: %+v", result.Matches)
	}
	second := result.Matches[1]
	if second.Title != "Purple Rain" || second.Artist != "Prince" {
		t.Errorf("second match = %+v", second)
	}
	if len(second.RecordingIDs) != 2 || second.RecordingIDs[0] != "mbid-1" {
		t.Errorf("recording ids = %v", second.RecordingIDs)
	}
}

func TestIdentifyFpcalcFailureIsFatal(t *testing.T) {
	client := NewClient(
		Config{APIKey: "key"},
		WithFingerprintFunc(fakeFingerprint("", errors.New("fpcalc: no such file"))),
	)
	_, err := client.Identify(context.Background(), "/music/missing.flac")
	if !errors.Is(err, services.ErrFingerprint) {
		t.Fatalf("expected fingerprint error, got %v", err)
	}
	if !services.Fatal(err) {
		t.Fatalf("fingerprint errors must be fatal")
	}
}

func TestIdentifyRejectsEmptyFingerprint(t *testing.T) {
	client := NewClient(
		Config{APIKey: "key"},
		WithFingerprintFunc(fakeFingerprint(`{"duration": 10}`, nil)),
	)
	if _, err := client.Identify(context.Background(), "/music/silent.wav"); !errors.Is(err, services.ErrFingerprint) {
		t.Fatalf("expected fingerprint error, got %v", err)
	}
}

func TestIdentifyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "error": {"message": "invalid API key"}}`))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "bad", BaseURL: server.URL},
		WithFingerprintFunc(fakeFingerprint(fpcalcJSON, nil)),
	)
	_, err := client.Identify(context.Background(), "/music/file.mp3")
	if !errors.Is(err, services.ErrFingerprint) {
		t.Fatalf("expected fingerprint error, got %v", err)
	}
}

func TestIdentifyRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{}, WithFingerprintFunc(fakeFingerprint(fpcalcJSON, nil)))
	if _, err := client.Identify(context.Background(), "/music/file.mp3"); !errors.Is(err, services.ErrFingerprint) {
		t.Fatalf("expected fingerprint error, got %v", err)
	}
}
