package engine

import (
	"context"
	"fmt"
)

// Engine translates a single piece of natural-language text.
type Engine interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Passthrough is the always-succeeding internal engine. It tags the text
// with the target language instead of translating, so the pipeline never
// dead-ends when every configured backend is down.
type Passthrough struct{}

func (Passthrough) Name() string { return "internal" }

func (Passthrough) Translate(_ context.Context, text, _, targetLang string) (string, error) {
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}
