package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAIFields(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     map[string]string
	}{
		{
			name:     "both values trimmed",
			provider: "  gemini  ",
			model:    "gemini-2.5-flash",
			want:     map[string]string{FieldProvider: "gemini", FieldModel: "gemini-2.5-flash"},
		},
		{
			name:     "empty model omitted",
			provider: "gemini",
			model:    "   ",
			want:     map[string]string{FieldProvider: "gemini"},
		},
		{
			name: "nothing known",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := AIFields(tt.provider, tt.model)
			if len(fields) != len(tt.want) {
				t.Fatalf("expected %d fields, got %d", len(tt.want), len(fields))
			}
			for _, f := range fields {
				if tt.want[f.Key] != f.String {
					t.Fatalf("unexpected field %s=%q", f.Key, f.String)
				}
			}
		})
	}
}

func TestQuestionFields(t *testing.T) {
	fields := QuestionFields(3, " technical ")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldQuestionID || fields[0].Integer != 3 {
		t.Fatalf("unexpected question id field: %+v", fields[0])
	}

	if fields[1].Key != FieldCategory || fields[1].String != "technical" {
		t.Fatalf("unexpected category field: %+v", fields[1])
	}

	if got := QuestionFields(1, ""); len(got) != 1 {
		t.Fatalf("expected empty category to be omitted, got %d fields", len(got))
	}
}

func TestWithAI(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithAI(zap.New(core), "gemini", "model-x").Info("generated", Session("s-1"), Corpus("cv"))

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	for key, want := range map[string]string{
		FieldProvider: "gemini",
		FieldModel:    "model-x",
		FieldSession:  "s-1",
		FieldCorpus:   "cv",
	} {
		if ctx[key] != want {
			t.Fatalf("expected %s=%q, got %v", key, want, ctx[key])
		}
	}

	// a nil logger falls back to a no-op one
	WithAI(nil, "gemini", "model-x").Info("dropped")
	With(nil).Info("dropped")
}
