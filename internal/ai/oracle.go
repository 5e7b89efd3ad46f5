package ai

import "context"

// Oracle is a non-deterministic text-in/text-out language model. Callers must
// not assume the returned text is well formed.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder turns texts into dense vectors used for similarity search.
type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float32, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

func (f OracleFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
