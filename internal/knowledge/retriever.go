package knowledge

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai"
	"github.com/spigell/interviewer/internal/logger"
	"github.com/spigell/interviewer/internal/utils"
)

// Retriever returns the passages of a corpus most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, corpus Corpus, query string, k int) ([]string, error)
}

// IndexRetriever searches the loaded indices by embedding the query.
type IndexRetriever struct {
	indices  map[Corpus]*Index
	embedder ai.Embedder
	logger   *zap.Logger
}

// NewIndexRetriever builds a retriever over the given indices. A nil embedder
// restricts search to lexical ranking.
func NewIndexRetriever(indices map[Corpus]*Index, embedder ai.Embedder, logger *zap.Logger) *IndexRetriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexRetriever{indices: indices, embedder: embedder, logger: logger}
}

// Open loads both corpus indices from disk.
func Open(cvPath, knowledgePath string, embedder ai.Embedder, logger *zap.Logger) (*IndexRetriever, error) {
	indices := make(map[Corpus]*Index, 2)
	for corpus, path := range map[Corpus]string{CorpusCV: cvPath, CorpusKnowledge: knowledgePath} {
		index, err := LoadIndex(path)
		if err != nil {
			return nil, fmt.Errorf("%s corpus: %w", corpus, err)
		}
		indices[corpus] = index
	}
	return NewIndexRetriever(indices, embedder, logger), nil
}

// Retrieve returns at most k passages of corpus ordered by descending similarity.
// It fails only with ErrIndexUnavailable; a failed query embedding falls back
// to lexical ranking.
func (r *IndexRetriever) Retrieve(ctx context.Context, corpus Corpus, query string, k int) ([]string, error) {
	index, ok := r.indices[corpus]
	if !ok || index == nil || len(index.Chunks) == 0 {
		return nil, fmt.Errorf("%w: corpus %q is not loaded", ErrIndexUnavailable, corpus)
	}

	query = strings.TrimSpace(query)
	if query == "" || k <= 0 {
		return []string{}, nil
	}

	if r.embedder != nil {
		vectors, err := r.embedder.Embed(ctx, query)
		if err == nil && len(vectors) != 1 {
			err = fmt.Errorf("expected one query vector, got %d", len(vectors))
		}
		if err == nil && index.Dimension > 0 && len(vectors[0]) != index.Dimension {
			err = fmt.Errorf("query vector has %d dimensions, index has %d", len(vectors[0]), index.Dimension)
		}
		if err == nil {
			passages := index.Nearest(vectors[0], k)
			r.logger.Debug("retrieved passages",
				logger.Corpus(string(corpus)),
				zap.String("query", utils.TruncateForLog(query, 80)),
				zap.Int("count", len(passages)),
			)
			return passages, nil
		}
		r.logger.Warn("query embedding failed, using lexical ranking",
			logger.Corpus(string(corpus)),
			zap.Error(err),
		)
	}

	return index.Lexical(query, k), nil
}
