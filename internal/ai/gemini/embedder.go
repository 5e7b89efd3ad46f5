package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/interviewer/internal/logger"
)

const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"

	maxEmbedBatch = 100
)

// Embedder produces text embeddings with a Gemini embedding model.
type Embedder struct {
	models   modelsAPI
	model    string
	taskType string
	logger   *zap.Logger
}

// NewEmbedder creates an Embedder. taskType is one of the Task* constants and may be empty.
func NewEmbedder(client *genai.Client, model, taskType string, log *zap.Logger) *Embedder {
	return newEmbedder(client.Models, model, taskType, log)
}

func newEmbedder(models modelsAPI, model, taskType string, log *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}

	return &Embedder{
		models:   models,
		model:    model,
		taskType: taskType,
		logger:   logger.WithAI(log, Provider, model).Named("gemini"),
	}
}

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		end := min(start+maxEmbedBatch, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: text}}})
		}

		var config *genai.EmbedContentConfig
		if e.taskType != "" {
			config = &genai.EmbedContentConfig{TaskType: e.taskType}
		}

		resp, err := e.models.EmbedContent(ctx, e.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("embed content: %w", err)
		}

		if resp == nil || len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", embeddingsLen(resp), end-start)
		}

		for _, embedding := range resp.Embeddings {
			if embedding == nil || len(embedding.Values) == 0 {
				return nil, errors.New("gemini api returned an empty embedding")
			}
			vectors = append(vectors, embedding.Values)
		}

		e.logger.Debug("embedded batch", zap.Int("from", start), zap.Int("to", end))
	}

	return vectors, nil
}

func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

func embeddingsLen(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
