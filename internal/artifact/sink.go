package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink writes translated documents next to their source file, following the
// registry's naming convention: SKILL.md -> SKILL_zh.md. Callers treat
// failures as non-fatal; the database copy stays authoritative.
type Sink struct {
	root string
}

// NewSink creates a sink. Relative path hints are resolved against root;
// an empty root leaves them relative to the working directory.
func NewSink(root string) *Sink {
	return &Sink{root: root}
}

// WriteTranslated writes content to the sibling file for lang and returns
// the path written.
func (s *Sink) WriteTranslated(pathHint, lang, content string) (string, error) {
	if pathHint == "" {
		return "", fmt.Errorf("empty path hint")
	}

	path := pathHint
	if s.root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	out := stem + "_" + lang + ext

	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return "", err
	}
	return out, nil
}
