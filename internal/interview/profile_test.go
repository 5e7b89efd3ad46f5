package interview

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/models"
)

func TestProfileExtractorProfile(t *testing.T) {
	tests := []struct {
		name     string
		response stubResponse
		want     models.CandidateProfile
	}{
		{
			name: "weakly typed fields",
			response: stubResponse{text: "```json\n" + `{
				"name": " Jane Doe ",
				"email": "jane@example.com",
				"phone": 5550100,
				"position": "Backend engineer",
				"experience_years": "4",
				"education": {"degree": "BSc"},
				"skills": ["Go", " ", "SQL"],
				"summary": "Builds services"
			}` + "\n```"},
			want: models.CandidateProfile{
				Name:            "Jane Doe",
				Email:           "jane@example.com",
				Phone:           "5550100",
				Position:        "Backend engineer",
				ExperienceYears: 4,
				Education:       `{"degree":"BSc"}`,
				Skills:          []string{"Go", "SQL"},
				Summary:         "Builds services",
			},
		},
		{
			name:     "negative experience",
			response: stubResponse{text: `{"name": "John", "experience_years": -2, "skills": "Go"}`},
			want:     models.CandidateProfile{Name: "John", Skills: []string{"Go"}},
		},
		{
			name:     "absurd experience is bounded",
			response: stubResponse{text: `{"name": "Ann", "experience_years": 1e20}`},
			want:     models.CandidateProfile{Name: "Ann", ExperienceYears: math.MaxInt32, Skills: []string{}},
		},
		{
			name:     "unparseable response",
			response: stubResponse{text: "no idea"},
			want:     models.CandidateProfile{},
		},
		{
			name:     "oracle error",
			response: stubResponse{err: errors.New("quota exceeded")},
			want:     models.CandidateProfile{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &stubRetriever{}
			oracle := &stubOracle{responses: []stubResponse{tt.response}}

			got, err := NewProfileExtractor(retriever, oracle, nil, 3, zap.NewNop()).Profile(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if len(retriever.calls) != 1 || retriever.calls[0].corpus != knowledge.CorpusCV {
				t.Fatalf("expected one résumé retrieval, got %+v", retriever.calls)
			}
		})
	}
}

func TestProfileExtractorFailsWhenIndexUnavailable(t *testing.T) {
	retriever := &stubRetriever{err: knowledge.ErrIndexUnavailable}

	_, err := NewProfileExtractor(retriever, &stubOracle{}, nil, 3, zap.NewNop()).Profile(context.Background())
	if !errors.Is(err, knowledge.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestProfileExtractorStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	oracle := &stubOracle{responses: []stubResponse{{err: context.Canceled}}}

	_, err := NewProfileExtractor(&stubRetriever{}, oracle, nil, 3, zap.NewNop()).Profile(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
