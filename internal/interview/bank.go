package interview

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai"
	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/models"
	"github.com/spigell/interviewer/internal/prompts"
	"github.com/spigell/interviewer/internal/response"
)

const defaultTopK = 3

// Query is one retrieval issued before a generation round.
type Query struct {
	Corpus knowledge.Corpus
	Text   string
}

// Round describes how the questions of one category are generated.
type Round struct {
	Category models.Category
	Queries  []Query
}

// Rounds are the generation rounds of a question bank in id order.
var Rounds = []Round{
	{
		Category: models.Behavioral,
		Queries:  []Query{{Corpus: knowledge.CorpusCV, Text: "teamwork communication challenges motivation"}},
	},
	{
		Category: models.Technical,
		Queries:  []Query{{Corpus: knowledge.CorpusKnowledge, Text: "technical knowledge programming technology frameworks best practices"}},
	},
	{
		Category: models.CVBased,
		Queries:  []Query{{Corpus: knowledge.CorpusCV, Text: "projects experience achievements activities"}},
	},
	{
		Category: models.Creative,
		Queries: []Query{
			{Corpus: knowledge.CorpusCV, Text: "skills experience"},
			{Corpus: knowledge.CorpusKnowledge, Text: "problem solving critical thinking"},
		},
	},
}

// RoundStats describes the outcome of one generation round.
type RoundStats struct {
	Quota    int
	Parsed   int
	Accepted int
}

// BankBuilder generates the question bank of a session.
type BankBuilder struct {
	retriever knowledge.Retriever
	oracle    ai.Oracle
	composer  *prompts.Composer
	topK      int
	logger    *zap.Logger
}

// NewBankBuilder creates a builder issuing topK-passage retrievals.
func NewBankBuilder(retriever knowledge.Retriever, oracle ai.Oracle, composer *prompts.Composer, topK int, logger *zap.Logger) *BankBuilder {
	if topK <= 0 {
		topK = defaultTopK
	}
	if composer == nil {
		composer = prompts.NewComposer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankBuilder{
		retriever: retriever,
		oracle:    oracle,
		composer:  composer,
		topK:      topK,
		logger:    logger,
	}
}

// Build runs every round in order and concatenates their questions. A round
// that yields fewer questions than its quota is accepted as is. Only
// retrieval failures and cancellation of ctx are returned.
func (b *BankBuilder) Build(ctx context.Context, position string) ([]models.Question, error) {
	questions := make([]models.Question, 0, models.TotalQuota())
	nextID := 1

	for _, round := range Rounds {
		accepted, stats, err := b.round(ctx, round, position)
		if err != nil {
			return nil, fmt.Errorf("%s round: %w", round.Category, err)
		}

		for _, q := range accepted {
			q.ID = nextID
			nextID++
			questions = append(questions, q)
		}

		log := b.logger.Info
		if stats.Accepted < stats.Quota {
			log = b.logger.Warn
		}
		log("generation round",
			zap.String("category", string(round.Category)),
			zap.Int("quota", stats.Quota),
			zap.Int("parsed", stats.Parsed),
			zap.Int("accepted", stats.Accepted),
		)
	}

	b.logger.Info("question bank built",
		zap.Int("questions", len(questions)),
		zap.Int("expected", models.TotalQuota()),
	)

	return questions, nil
}

func (b *BankBuilder) round(ctx context.Context, round Round, position string) ([]models.Question, RoundStats, error) {
	stats := RoundStats{Quota: round.Category.Quota()}

	in := prompts.GenerationInput{Category: round.Category, Position: position}
	for _, query := range round.Queries {
		passages, err := b.retriever.Retrieve(ctx, query.Corpus, query.Text, b.topK)
		if err != nil {
			return nil, stats, err
		}
		switch query.Corpus {
		case knowledge.CorpusCV:
			in.CV = append(in.CV, passages...)
		case knowledge.CorpusKnowledge:
			in.Knowledge = append(in.Knowledge, passages...)
		}
	}

	raw, err := b.oracle.Generate(ctx, b.composer.Generation(in))
	if err != nil {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		b.logger.Warn("question generation failed",
			zap.String("category", string(round.Category)),
			zap.Error(err),
		)
		return nil, stats, nil
	}

	items := response.ParseArray(raw)
	stats.Parsed = len(items)

	accepted := make([]models.Question, 0, stats.Quota)
	for _, item := range items {
		if len(accepted) == stats.Quota {
			break
		}
		q, ok := decodeQuestion(item, round.Category)
		if !ok {
			continue
		}
		accepted = append(accepted, q)
	}
	stats.Accepted = len(accepted)

	return accepted, stats, nil
}

type rawQuestion struct {
	Question  string `json:"question"`
	Purpose   string `json:"purpose"`
	RelatedTo any    `json:"related_to"`
}

// decodeQuestion converts a parsed item into a question of category. Items
// without question text are rejected. The category of the round always wins
// over whatever the item claims.
func decodeQuestion(item map[string]any, category models.Category) (models.Question, bool) {
	var raw rawQuestion
	if err := response.Decode(item, &raw); err != nil {
		return models.Question{}, false
	}

	if !category.Valid() {
		return models.Question{}, false
	}

	text := strings.TrimSpace(raw.Question)
	if text == "" {
		return models.Question{}, false
	}

	return models.Question{
		Question:  text,
		Category:  category,
		Purpose:   strings.TrimSpace(raw.Purpose),
		RelatedTo: coerceString(raw.RelatedTo),
	}, true
}
