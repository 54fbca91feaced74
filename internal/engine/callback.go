package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CallbackEngine posts to a user-operated translation endpoint. The
// credential travels in a header so the body stays a plain payload.
type CallbackEngine struct {
	URL    string
	APIKey string
	Client *http.Client
}

func (e *CallbackEngine) Name() string { return "callback" }

func (e *CallbackEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"text":        text,
		"source_lang": sourceLang,
		"target_lang": targetLang,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("X-Translate-Key", e.APIKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("callback engine status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("callback engine response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("callback engine returned empty text")
	}
	return out.Text, nil
}
