package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadReportsNotConfigured(t *testing.T) {
	_, err := Load(Source{Name: "gemini api key"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	filled := filepath.Join(dir, "key")
	if err := os.WriteFile(filled, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("INTERVIEWER_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{
			name: "file wins over value and env",
			src:  Source{Name: "key", File: filled, Value: "inline", Env: "INTERVIEWER_TEST_KEY"},
			want: "from-file",
		},
		{
			name: "value wins over env",
			src:  Source{Name: "key", Value: " inline ", Env: "INTERVIEWER_TEST_KEY"},
			want: "inline",
		},
		{
			name: "env used as last resort",
			src:  Source{Name: "key", Env: "INTERVIEWER_TEST_KEY"},
			want: "from-env",
		},
		{
			name:    "empty file",
			src:     Source{Name: "key", File: empty, Env: "INTERVIEWER_TEST_KEY"},
			wantErr: "is empty",
		},
		{
			name:    "missing file",
			src:     Source{Name: "key", File: filepath.Join(dir, "missing")},
			wantErr: "reading key from file",
		},
		{
			name:    "nothing configured",
			src:     Source{Env: "INTERVIEWER_TEST_UNSET_KEY"},
			wantErr: "secret not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
