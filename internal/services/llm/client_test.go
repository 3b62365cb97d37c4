package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	base := []Option{WithSleeper(func(time.Duration) {})}
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Referer: "https://example.com/princer",
		Title:   "princer",
	}, append(base, opts...)...)
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestCompleteJSONSendsHeadersAndPrompts(t *testing.T) {
	var captured struct {
		auth    string
		referer string
		title   string
		body    chatCompletionRequest
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		captured.referer = r.Header.Get("HTTP-Referer")
		captured.title = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionBody(`{"ok":true}`)))
	})

	content, err := client.CompleteJSON(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("content = %q", content)
	}
	if captured.auth != "Bearer test-key" {
		t.Errorf("authorization = %q", captured.auth)
	}
	if captured.referer != "https://example.com/princer" || captured.title != "princer" {
		t.Errorf("openrouter headers = %q / %q", captured.referer, captured.title)
	}
	if captured.body.Temperature != 0 {
		t.Errorf("temperature = %v", captured.body.Temperature)
	}
	if got := captured.body.ResponseFormat["type"]; got != "json_object" {
		t.Errorf("response_format = %q", got)
	}
	if len(captured.body.Messages) != 2 || captured.body.Messages[0].Role != "system" || captured.body.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", captured.body.Messages)
	}
}

func TestCompleteJSONRequiresPrompts(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	if _, err := client.CompleteJSON(context.Background(), "", "user"); err == nil {
		t.Error("expected error for empty system prompt")
	}
	if _, err := client.CompleteJSON(context.Background(), "system", ""); err == nil {
		t.Error("expected error for empty user prompt")
	}
	unkeyed := NewClient(Config{})
	if _, err := unkeyed.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Error("expected error for missing api key")
	}
}

func TestCompleteJSONRetriesServerErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionBody(`{"ok":true}`)))
	})

	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON after retry: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("content = %q", content)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestCompleteJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error for 401")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"ok":true}`)))
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	type result struct {
		Title      string  `json:"title"`
		Artist     string  `json:"artist"`
		Confidence float64 `json:"confidence"`
	}

	cases := []struct {
		name    string
		content string
		want    result
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"title":"X","artist":"Y","confidence":0.8}`,
			want:    result{Title: "X", Artist: "Y", Confidence: 0.8},
		},
		{
			name:    "json code fence",
			content: "```json\n{\"title\":\"X\",\"artist\":\"Y\",\"confidence\":0.8}\n```",
			want:    result{Title: "X", Artist: "Y", Confidence: 0.8},
		},
		{
			name:    "bare code fence",
			content: "```\n{\"title\":\"X\",\"artist\":\"Y\",\"confidence\":0.8}\n```",
			want:    result{Title: "X", Artist: "Y", Confidence: 0.8},
		},
		{
			name:    "object inside prose",
			content: `Here is the metadata you asked for: {"title":"X","artist":"Y","confidence":0.8} Hope that helps!`,
			want:    result{Title: "X", Artist: "Y", Confidence: 0.8},
		},
		{
			name:    "not json at all",
			content: "I could not determine the metadata.",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "   ",
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got result
			err := DecodeLLMJSON(tc.content, &got)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLLMJSON: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSummarizePayloadSnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := summarizePayloadSnippet(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation suffix, got %q", got)
	}
	if len([]rune(got)) > 163 {
		t.Fatalf("snippet too long: %d", len([]rune(got)))
	}
}
