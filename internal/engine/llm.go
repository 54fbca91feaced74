package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const llmSystemPrompt = `You are a technical translator. Translate the user's text from %s to %s.
Preserve identifiers, code blocks, inline code, URLs and structural markup exactly as written.
Translate only natural-language content. Reply with the translation and nothing else.`

// LLMEngine calls an OpenAI-compatible chat completions endpoint.
type LLMEngine struct {
	URL    string
	Model  string
	APIKey string
	Client *http.Client
}

func (e *LLMEngine) Name() string { return "llm" }

func (e *LLMEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	body, err := json.Marshal(map[string]any{
		"model": e.Model,
		"messages": []message{
			{Role: "system", Content: fmt.Sprintf(llmSystemPrompt, sourceLang, targetLang)},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llm engine status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm engine response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm engine returned no choices")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("llm engine returned empty content")
	}
	return content, nil
}
