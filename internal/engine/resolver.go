package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Resolver tries configured engines in priority order and falls back to the
// internal passthrough when all of them fail. The built engine list is
// cached; Invalidate drops the cache so the next call reloads from Source.
type Resolver struct {
	source Source

	mu      sync.Mutex
	engines []Engine
	loaded  bool
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Invalidate drops the cached engine list. Call it when the config source
// changed (reload endpoint, pub/sub notification).
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.engines = nil
	r.loaded = false
	r.mu.Unlock()
}

func (r *Resolver) currentEngines(ctx context.Context) []Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.engines
	}

	configs, err := r.source.Load(ctx)
	if err != nil {
		// Keep running on the passthrough until config is readable again.
		log.Printf("[engine] config load error=%v", err)
		return nil
	}

	engines := make([]Engine, 0, len(configs))
	for _, cfg := range configs {
		e, err := buildEngine(cfg)
		if err != nil {
			log.Printf("[engine] skip type=%s error=%v", cfg.Type, err)
			continue
		}
		engines = append(engines, e)
	}

	r.engines = engines
	r.loaded = true
	return engines
}

func buildEngine(cfg Config) (Engine, error) {
	switch cfg.Type {
	case "callback":
		if cfg.URL == "" {
			return nil, fmt.Errorf("callback engine requires url")
		}
		return &CallbackEngine{URL: cfg.URL, APIKey: resolveAPIKey(cfg.APIKey), Client: httpClient(cfg.Proxy)}, nil
	case "llm":
		if cfg.URL == "" || cfg.Model == "" {
			return nil, fmt.Errorf("llm engine requires url and model")
		}
		return &LLMEngine{URL: cfg.URL, Model: cfg.Model, APIKey: resolveAPIKey(cfg.APIKey), Client: httpClient(cfg.Proxy)}, nil
	case "google":
		return &GoogleEngine{Client: httpClient(cfg.Proxy)}, nil
	case "mymemory":
		return &MyMemoryEngine{Client: httpClient(cfg.Proxy)}, nil
	case "internal":
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown engine type %q", cfg.Type)
	}
}

// TranslateText runs the engine chain. Any engine error just moves on to
// the next entry; the passthrough terminates the chain unconditionally.
func (r *Resolver) TranslateText(ctx context.Context, text, sourceLang, targetLang string) string {
	for _, e := range r.currentEngines(ctx) {
		out, err := e.Translate(ctx, text, sourceLang, targetLang)
		if err != nil {
			log.Printf("[engine] name=%s source=%s target=%s error=%v", e.Name(), sourceLang, targetLang, err)
			continue
		}
		return out
	}

	out, _ := Passthrough{}.Translate(ctx, text, sourceLang, targetLang)
	return out
}

// TranslateValue translates a structured payload recursively: string leaves
// are translated, object/array shape and non-string leaves pass through,
// object keys are never touched.
func (r *Resolver) TranslateValue(ctx context.Context, raw json.RawMessage, sourceLang, targetLang string) (json.RawMessage, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	translated := r.translateAny(ctx, v, sourceLang, targetLang)

	out, err := json.Marshal(translated)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

func (r *Resolver) translateAny(ctx context.Context, v any, sourceLang, targetLang string) any {
	switch t := v.(type) {
	case string:
		return r.TranslateText(ctx, t, sourceLang, targetLang)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = r.translateAny(ctx, val, sourceLang, targetLang)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = r.translateAny(ctx, val, sourceLang, targetLang)
		}
		return out
	default:
		return v
	}
}
