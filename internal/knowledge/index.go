package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ErrIndexUnavailable is returned when a similarity index cannot be used.
var ErrIndexUnavailable = errors.New("similarity index unavailable")

// Corpus identifies one of the two similarity indices.
type Corpus string

const (
	CorpusCV        Corpus = "cv"
	CorpusKnowledge Corpus = "knowledge"
)

// Valid reports whether c names a known corpus.
func (c Corpus) Valid() bool {
	return c == CorpusCV || c == CorpusKnowledge
}

// Chunk is one indexed passage.
type Chunk struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Index is the on-disk similarity index of one corpus.
type Index struct {
	Corpus    Corpus    `json:"corpus"`
	Model     string    `json:"model"`
	Dimension int       `json:"dimension"`
	CreatedAt time.Time `json:"created_at"`
	Chunks    []Chunk   `json:"chunks"`
}

// LoadIndex reads an index file. Any failure is reported as ErrIndexUnavailable.
func LoadIndex(path string) (*Index, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: index path is not configured", ErrIndexUnavailable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrIndexUnavailable, path, err)
	}

	if len(index.Chunks) == 0 {
		return nil, fmt.Errorf("%w: %s has no chunks", ErrIndexUnavailable, path)
	}

	return &index, nil
}

// Save writes the index as indented JSON.
func (idx *Index) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(idx)
}

type scored struct {
	pos   int
	score float64
}

// Nearest returns the texts of at most k chunks ordered by descending cosine
// similarity to query. Ties keep index order.
func (idx *Index) Nearest(query []float32, k int) []string {
	ranked := make([]scored, 0, len(idx.Chunks))
	for i, chunk := range idx.Chunks {
		if len(chunk.Vector) == 0 {
			continue
		}
		ranked = append(ranked, scored{pos: i, score: cosineSimilarity(query, chunk.Vector)})
	}
	return idx.top(ranked, k)
}

// Lexical ranks chunks by the number of query terms they contain. Chunks
// sharing no term with the query are not returned.
func (idx *Index) Lexical(query string, k int) []string {
	terms := tokenize(query)

	ranked := make([]scored, 0, len(idx.Chunks))
	for i, chunk := range idx.Chunks {
		words := make(map[string]struct{})
		for _, w := range tokenize(chunk.Text) {
			words[w] = struct{}{}
		}

		hits := 0
		for _, term := range terms {
			if _, ok := words[term]; ok {
				hits++
			}
		}
		if hits > 0 {
			ranked = append(ranked, scored{pos: i, score: float64(hits)})
		}
	}
	return idx.top(ranked, k)
}

func (idx *Index) top(ranked []scored, k int) []string {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	limit := min(k, len(ranked))
	if limit <= 0 {
		return []string{}
	}

	texts := make([]string, 0, limit)
	for _, r := range ranked[:limit] {
		texts = append(texts, idx.Chunks[r.pos].Text)
	}
	return texts
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
