package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleEngine uses the free gtx endpoint. No credential; best-effort only,
// which is why it sits near the end of the default engine order.
type GoogleEngine struct {
	Client *http.Client
}

func (e *GoogleEngine) Name() string { return "google" }

func (e *GoogleEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", sourceLang)
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google engine status %d", resp.StatusCode)
	}

	// Response shape: [[["translated","original",...],...],...]
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("google engine response: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("google engine returned empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("google engine segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("google engine returned no segments")
	}
	return b.String(), nil
}
