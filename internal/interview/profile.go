package interview

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai"
	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/models"
	"github.com/spigell/interviewer/internal/prompts"
	"github.com/spigell/interviewer/internal/response"
)

const profileQuery = "name email phone education skills experience summary"

// ProfileSource supplies the candidate profile at session start.
type ProfileSource interface {
	Profile(ctx context.Context) (models.CandidateProfile, error)
}

// ProfileFunc adapts a plain function to the ProfileSource interface.
type ProfileFunc func(ctx context.Context) (models.CandidateProfile, error)

func (f ProfileFunc) Profile(ctx context.Context) (models.CandidateProfile, error) {
	return f(ctx)
}

// ProfileExtractor asks the oracle to read the candidate profile from the résumé corpus.
type ProfileExtractor struct {
	retriever knowledge.Retriever
	oracle    ai.Oracle
	composer  *prompts.Composer
	topK      int
	logger    *zap.Logger
}

// NewProfileExtractor creates an extractor retrieving topK résumé passages.
func NewProfileExtractor(retriever knowledge.Retriever, oracle ai.Oracle, composer *prompts.Composer, topK int, logger *zap.Logger) *ProfileExtractor {
	if topK <= 0 {
		topK = defaultTopK
	}
	if composer == nil {
		composer = prompts.NewComposer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileExtractor{
		retriever: retriever,
		oracle:    oracle,
		composer:  composer,
		topK:      topK,
		logger:    logger,
	}
}

// Profile extracts the profile. Oracle and parsing failures yield an empty
// profile; only retrieval failures and cancellation of ctx are returned.
func (e *ProfileExtractor) Profile(ctx context.Context) (models.CandidateProfile, error) {
	passages, err := e.retriever.Retrieve(ctx, knowledge.CorpusCV, profileQuery, e.topK)
	if err != nil {
		return models.CandidateProfile{}, err
	}

	raw, err := e.oracle.Generate(ctx, e.composer.ProfileExtraction(passages))
	if err != nil {
		if ctx.Err() != nil {
			return models.CandidateProfile{}, ctx.Err()
		}
		e.logger.Warn("profile extraction failed", zap.Error(err))
		return models.CandidateProfile{}, nil
	}

	profile, ok := decodeProfile(response.ParseObject(raw))
	if !ok {
		e.logger.Warn("profile extraction returned no usable data")
		return models.CandidateProfile{}, nil
	}

	e.logger.Info("candidate profile extracted",
		zap.String("name", profile.Name),
		zap.String("position", profile.Position),
		zap.Int("skills", len(profile.Skills)),
	)
	return profile, nil
}

// maxExperienceYears bounds oracle output before the int conversion.
const maxExperienceYears = math.MaxInt32

type rawProfile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Position        string   `json:"position"`
	ExperienceYears any      `json:"experience_years"`
	Education       any      `json:"education"`
	Skills          []string `json:"skills"`
	Summary         string   `json:"summary"`
}

func decodeProfile(obj map[string]any) (models.CandidateProfile, bool) {
	if len(obj) == 0 {
		return models.CandidateProfile{}, false
	}

	var raw rawProfile
	if err := response.Decode(obj, &raw); err != nil {
		return models.CandidateProfile{}, false
	}

	years := coerceFloat(raw.ExperienceYears)
	switch {
	case math.IsNaN(years) || years < 0:
		years = 0
	case years > maxExperienceYears:
		years = maxExperienceYears
	}

	skills := make([]string, 0, len(raw.Skills))
	for _, s := range raw.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	return models.CandidateProfile{
		Name:            strings.TrimSpace(raw.Name),
		Email:           strings.TrimSpace(raw.Email),
		Phone:           strings.TrimSpace(raw.Phone),
		Position:        strings.TrimSpace(raw.Position),
		ExperienceYears: int(years),
		Education:       coerceString(raw.Education),
		Skills:          skills,
		Summary:         strings.TrimSpace(raw.Summary),
	}, true
}
