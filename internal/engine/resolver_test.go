package engine_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"skillhub-translate-worker/internal/engine"
)

type stubSource struct {
	configs []engine.Config
	loads   atomic.Int32
}

func (s *stubSource) Load(ctx context.Context) ([]engine.Config, error) {
	s.loads.Add(1)
	return s.configs, nil
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func translatingServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": reply})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolver_FallsThroughToWorkingEngine(t *testing.T) {
	ctx := context.Background()

	src := &stubSource{configs: []engine.Config{
		{Type: "callback", URL: failingServer(t).URL},
		{Type: "callback", URL: failingServer(t).URL},
		{Type: "callback", URL: translatingServer(t, "bonjour").URL},
	}}
	r := engine.NewResolver(src)

	got := r.TranslateText(ctx, "hello", "en", "fr")
	if got != "bonjour" {
		t.Fatalf("expected third engine's result, got %q", got)
	}
}

func TestResolver_TotalFallbackUsesPassthrough(t *testing.T) {
	ctx := context.Background()

	src := &stubSource{configs: []engine.Config{
		{Type: "callback", URL: failingServer(t).URL},
		{Type: "callback", URL: failingServer(t).URL},
	}}
	r := engine.NewResolver(src)

	got := r.TranslateText(ctx, "Hello", "en", "zh")
	if got != "[zh] Hello" {
		t.Fatalf("expected passthrough result, got %q", got)
	}
}

func TestResolver_NoEnginesConfigured(t *testing.T) {
	ctx := context.Background()

	r := engine.NewResolver(&stubSource{})
	got := r.TranslateText(ctx, "Template", "en", "zh")
	if got != "[zh] Template" {
		t.Fatalf("expected passthrough result, got %q", got)
	}
}

func TestResolver_APIKeyResolvedFromEnv(t *testing.T) {
	ctx := context.Background()
	t.Setenv("TRANSLATE_CALLBACK_KEY", "s3cret")

	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("X-Translate-Key"))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	t.Cleanup(srv.Close)

	src := &stubSource{configs: []engine.Config{
		{Type: "callback", URL: srv.URL, APIKey: "TRANSLATE_CALLBACK_KEY"},
	}}
	r := engine.NewResolver(src)

	if got := r.TranslateText(ctx, "hello", "en", "fr"); got != "ok" {
		t.Fatalf("unexpected result %q", got)
	}
	if gotKey.Load() != "s3cret" {
		t.Fatalf("expected env-resolved key, got %v", gotKey.Load())
	}
}

func TestResolver_LiteralAPIKeyKept(t *testing.T) {
	ctx := context.Background()

	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("X-Translate-Key"))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	t.Cleanup(srv.Close)

	src := &stubSource{configs: []engine.Config{
		{Type: "callback", URL: srv.URL, APIKey: "literal-value-not-an-env-var"},
	}}
	r := engine.NewResolver(src)

	_ = r.TranslateText(ctx, "hello", "en", "fr")
	if gotKey.Load() != "literal-value-not-an-env-var" {
		t.Fatalf("expected literal key, got %v", gotKey.Load())
	}
}

func TestResolver_TranslateValueRecursive(t *testing.T) {
	ctx := context.Background()

	src := &stubSource{configs: []engine.Config{{Type: "internal"}}}
	r := engine.NewResolver(src)

	in := json.RawMessage(`{"title":"Hello","count":3,"ok":true,"tags":["one","two"],"nested":{"body":"World"}}`)
	out, err := r.TranslateValue(ctx, in, "en", "zh")
	if err != nil {
		t.Fatalf("translate value error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("invalid output json: %v", err)
	}

	want := map[string]any{
		"title":  "[zh] Hello",
		"count":  float64(3),
		"ok":     true,
		"tags":   []any{"[zh] one", "[zh] two"},
		"nested": map[string]any{"body": "[zh] World"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected translation:\n got %#v\nwant %#v", got, want)
	}
}

func TestResolver_InvalidateReloadsConfig(t *testing.T) {
	ctx := context.Background()

	src := &stubSource{configs: []engine.Config{{Type: "internal"}}}
	r := engine.NewResolver(src)

	_ = r.TranslateText(ctx, "a", "en", "zh")
	_ = r.TranslateText(ctx, "b", "en", "zh")
	if got := src.loads.Load(); got != 1 {
		t.Fatalf("expected config cached after first load, got %d loads", got)
	}

	r.Invalidate()
	_ = r.TranslateText(ctx, "c", "en", "zh")
	if got := src.loads.Load(); got != 2 {
		t.Fatalf("expected reload after invalidate, got %d loads", got)
	}
}
