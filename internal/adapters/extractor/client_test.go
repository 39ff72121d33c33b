package extractor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"villa_mare/internal/adapters/extractor"
)

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestExtract_FetchesPageAndParsesCompletion(t *testing.T) {
	var pageHits, chatHits int32
	var gotPrompt string
	var gotFormat string
	mux := http.NewServeMux()
	mux.HandleFunc("/review/1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&pageHits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable) // one transient failure
			return
		}
		_, _ = io.WriteString(w, "<html><body><p>Anna: splendida vista</p>"+strings.Repeat("x", 60000)+"</body></html>")
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&chatHits, 1)
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat map[string]string `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Messages[len(req.Messages)-1].Content
		gotFormat = req.ResponseFormat["type"]
		_ = json.NewEncoder(w).Encode(completion(`{"guest_name":"Anna","content":"Splendida vista","rating":4.6,"external_source":"Airbnb"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cl, err := extractor.New(ts.URL+"/v1", "test-key", "", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	ex, err := cl.Extract(ctx, ts.URL+"/review/1")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ex.GuestName != "Anna" || ex.Content != "Splendida vista" || ex.Rating != 5 || ex.ExternalSource != "Airbnb" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
	if ex.ExternalLink != ts.URL+"/review/1" {
		t.Fatalf("external link = %q", ex.ExternalLink)
	}
	if atomic.LoadInt32(&pageHits) != 2 || atomic.LoadInt32(&chatHits) != 1 {
		t.Fatalf("page hits %d chat hits %d", pageHits, chatHits)
	}
	if gotFormat != "json_object" {
		t.Fatalf("response_format = %q", gotFormat)
	}
	// prompt = "URL: <url>\n\n" + capped page
	if len(gotPrompt) > extractor.MaxPageChars+len("URL: "+ts.URL+"/review/1\n\n") {
		t.Fatalf("page not capped: %d chars", len(gotPrompt))
	}
}

func TestExtract_PageNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := extractor.New(ts.URL, "k", "m", 100)
	_, err := cl.Extract(context.Background(), ts.URL+"/missing")
	if !errors.Is(err, extractor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtract_BadCompletion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "<p>hi</p>") })
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("not json"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cl, _ := extractor.New(ts.URL, "k", "m", 100)
	if _, err := cl.Extract(context.Background(), ts.URL+"/page"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := extractor.New("http://x", "", "", 1); err == nil {
		t.Fatalf("expected error without key")
	}
}
