// Package secrets resolves credentials such as the Gemini API key.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when no source yields a value.
var ErrNotConfigured = errors.New("not configured")

// Source lists the places a secret may come from, highest priority first:
// File, then Value, then the Env variable.
type Source struct {
	Name  string
	File  string
	Value string
	Env   string
}

// Load returns the first non-empty secret found in src, trimmed.
// A configured but empty or unreadable file is an error and does not fall
// through to Value or Env.
func Load(src Source) (string, error) {
	label := strings.TrimSpace(src.Name)
	if label == "" {
		label = "secret"
	}

	if path := strings.TrimSpace(src.File); path != "" {
		return fromFile(label, path)
	}

	lookups := []func() string{
		func() string { return src.Value },
		func() string {
			if src.Env == "" {
				return ""
			}
			return os.Getenv(src.Env)
		},
	}
	for _, lookup := range lookups {
		if v := strings.TrimSpace(lookup()); v != "" {
			return v, nil
		}
	}

	return "", fmt.Errorf("%s %w", label, ErrNotConfigured)
}

func fromFile(label, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", label, path, err)
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return "", fmt.Errorf("%s file %q is empty", label, path)
	}
	return v, nil
}
