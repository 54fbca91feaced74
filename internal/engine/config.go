package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Config describes one engine in priority order. Provider-specific fields
// are optional depending on Type.
type Config struct {
	Type   string `json:"type"` // callback | llm | google | mymemory | internal
	URL    string `json:"url,omitempty"`
	Model  string `json:"model,omitempty"`
	APIKey string `json:"apiKey,omitempty"`
	Proxy  string `json:"proxy,omitempty"`
}

// Source loads the ordered engine list. The resolver caches the result
// until Invalidate is called.
type Source interface {
	Load(ctx context.Context) ([]Config, error)
}

// FileSource reads the engine list from a JSON file:
// {"engines": [{"type": "...", ...}, ...]}.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}

	var doc struct {
		Engines []Config `json:"engines"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse engine config: %w", err)
	}
	return doc.Engines, nil
}

// resolveAPIKey lets config reference a secret by env var name instead of
// embedding it: if the value names a set environment variable, that
// variable's value is used; otherwise the value is the key itself.
func resolveAPIKey(v string) string {
	if env := os.Getenv(v); env != "" {
		return env
	}
	return v
}

// httpClient builds the client for one engine, honoring an optional proxy.
func httpClient(proxy string) *http.Client {
	c := &http.Client{Timeout: 30 * time.Second}
	if proxy == "" {
		return c
	}
	u, err := url.Parse(proxy)
	if err != nil {
		return c
	}
	c.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	return c
}
