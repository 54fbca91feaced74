package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const myMemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemoryEngine uses the free MyMemory API.
type MyMemoryEngine struct {
	Client   *http.Client
	Endpoint string // defaults to the public API
}

func (e *MyMemoryEngine) Name() string { return "mymemory" }

func (e *MyMemoryEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	endpoint := e.Endpoint
	if endpoint == "" {
		endpoint = myMemoryEndpoint
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", sourceLang+"|"+targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mymemory engine status %d", resp.StatusCode)
	}

	var out struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus any `json:"responseStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("mymemory engine response: %w", err)
	}

	// The API reports quota and language errors with HTTP 200 and a
	// "MYMEMORY WARNING" string in translatedText; only the body status
	// tells them apart from real translations.
	if code := myMemoryStatus(out.ResponseStatus); code != 0 && code != http.StatusOK {
		return "", fmt.Errorf("mymemory engine response status %v", out.ResponseStatus)
	}
	if out.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("mymemory engine returned empty text")
	}
	return out.ResponseData.TranslatedText, nil
}

// responseStatus comes back as a number on success and sometimes as a
// quoted string on errors.
func myMemoryStatus(v any) int {
	switch s := v.(type) {
	case float64:
		return int(s)
	case string:
		n, _ := strconv.Atoi(s)
		return n
	default:
		return 0
	}
}
