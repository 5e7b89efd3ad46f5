package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai"
)

// Builder creates a corpus index from plain-text documents.
type Builder struct {
	Splitter Splitter
	Embedder ai.Embedder
	Model    string
	Logger   *zap.Logger
	Now      func() time.Time
}

// Build reads, splits and embeds every file into a single index.
func (b *Builder) Build(ctx context.Context, corpus Corpus, files []string) (*Index, error) {
	if !corpus.Valid() {
		return nil, fmt.Errorf("unknown corpus %q", corpus)
	}
	if b.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var chunks []Chunk
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		parts := b.Splitter.Split(string(data))
		source := filepath.Base(path)
		for i, part := range parts {
			chunks = append(chunks, Chunk{
				ID:     fmt.Sprintf("%s_chunk_%d", source, i),
				Source: source,
				Text:   part,
			})
		}

		logger.Info("split document", zap.String("file", path), zap.Int("chunks", len(parts)))
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text found in %d file(s)", len(files))
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	vectors, err := b.Embedder.Embed(ctx, texts...)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	return &Index{
		Corpus:    corpus,
		Model:     b.Model,
		Dimension: len(vectors[0]),
		CreatedAt: now().UTC(),
		Chunks:    chunks,
	}, nil
}
