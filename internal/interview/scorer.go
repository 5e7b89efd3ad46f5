package interview

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai"
	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/logger"
	"github.com/spigell/interviewer/internal/models"
	"github.com/spigell/interviewer/internal/prompts"
	"github.com/spigell/interviewer/internal/response"
)

// DefaultScore is recorded when the oracle gives no usable score.
const DefaultScore = 5.0

// Scorer grades answers with the rubric of the question category.
type Scorer struct {
	retriever knowledge.Retriever
	oracle    ai.Oracle
	composer  *prompts.Composer
	topK      int
	logger    *zap.Logger
}

// NewScorer creates a scorer retrieving topK context passages per answer.
func NewScorer(retriever knowledge.Retriever, oracle ai.Oracle, composer *prompts.Composer, topK int, logger *zap.Logger) *Scorer {
	if topK <= 0 {
		topK = defaultTopK
	}
	if composer == nil {
		composer = prompts.NewComposer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		retriever: retriever,
		oracle:    oracle,
		composer:  composer,
		topK:      topK,
		logger:    logger,
	}
}

// ContextCorpus is the corpus holding scoring context for category.
func ContextCorpus(category models.Category) knowledge.Corpus {
	switch category {
	case models.Behavioral, models.CVBased:
		return knowledge.CorpusCV
	case models.Technical, models.Creative:
		return knowledge.CorpusKnowledge
	default:
		return knowledge.CorpusKnowledge
	}
}

// Score grades answer to q. It always returns a record: oracle and parsing
// failures degrade to DefaultScore with empty feedback.
func (s *Scorer) Score(ctx context.Context, q models.Question, answer string) models.AnswerRecord {
	log := s.logger.With(logger.QuestionFields(q.ID, string(q.Category))...)

	passages, err := s.retriever.Retrieve(ctx, ContextCorpus(q.Category), q.Question, s.topK)
	if err != nil {
		log.Warn("scoring context unavailable", zap.Error(err))
		passages = nil
	}

	rec := models.AnswerRecord{QuestionID: q.ID, Answer: answer}

	raw, err := s.oracle.Generate(ctx, s.composer.Scoring(q, answer, passages))
	if err != nil {
		log.Warn("scoring failed, using default score", zap.Error(err), zap.Float64("score", DefaultScore))
		rec.Score = DefaultScore
		rec.Criteria = map[string]float64{}
		return rec
	}

	score, criteria, feedback, source := evaluate(response.ParseObject(raw), q.Category.Rubric())
	rec.Score = score
	rec.Criteria = criteria
	rec.Feedback = feedback

	if source == sourceDefault {
		log.Warn("scoring response unusable, using default score", zap.Float64("score", DefaultScore))
	} else {
		log.Debug("answer scored",
			zap.Float64("score", score),
			zap.String("source", source),
			zap.Int("criteria", len(criteria)),
		)
	}

	return rec
}

const (
	sourceTotal    = "total"
	sourceCriteria = "criteria"
	sourceDefault  = "default"
)

// evaluate applies the scoring policy to a parsed response: a valid total is
// used as is, otherwise the mean of the valid rubric scores, otherwise
// DefaultScore with no feedback.
func evaluate(obj map[string]any, rubric models.Rubric) (float64, map[string]float64, string, string) {
	criteria := make(map[string]float64, len(rubric.Dimensions))
	sum := 0.0
	for _, key := range rubric.Keys() {
		if v, ok := validScore(obj[key]); ok {
			criteria[key] = v
			sum += v
		}
	}

	feedback := coerceString(obj["feedback"])

	if total, ok := validScore(obj["total"]); ok {
		return total, criteria, feedback, sourceTotal
	}

	if len(criteria) > 0 {
		return sum / float64(len(criteria)), criteria, feedback, sourceCriteria
	}

	return DefaultScore, map[string]float64{}, "", sourceDefault
}
