package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(baseURL string) *geminiClient {
	return &geminiClient{
		apiKey:     "test-key",
		model:      "gemini-2.5-flash",
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Track your spending weekly."}]}}]}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Generate(context.Background(), "budget tips")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "Track your spending weekly." {
		t.Errorf("got %q", got)
	}
}

func TestGeminiGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("err=%v, want provider detail preserved", err)
	}
}

func TestGeminiGenerateMissingKey(t *testing.T) {
	client := testClient("http://unused")
	client.apiKey = ""

	if _, err := client.Generate(context.Background(), "hi"); err == nil {
		t.Fatal("expected error when api key is unset")
	}
}

// A failing generator must never fail the chat exchange itself: the error
// detail becomes the ai-side transcript entry.
func TestGeneratorFailureIsCapturedInTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"backend overloaded"}}`))
	}))
	defer srv.Close()

	state := &SessionState{UserID: 1}
	thread := postMessage(context.Background(), state, testClient(srv.URL), "hello")

	last := thread.Messages[len(thread.Messages)-1]
	if last.Role != "ai" || !strings.HasPrefix(last.Content, "Error: ") {
		t.Errorf("last message = %+v, want Error: transcript entry", last)
	}
	if !strings.Contains(last.Content, "backend overloaded") {
		t.Errorf("content=%q, want provider detail", last.Content)
	}
}
