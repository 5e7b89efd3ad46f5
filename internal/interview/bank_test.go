package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai"
	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/models"
	"github.com/spigell/interviewer/internal/prompts"
)

func generated(category models.Category, n int) string {
	items := make([]map[string]any, 0, n)
	for i := range n {
		items = append(items, map[string]any{
			"id":         100 + i,
			"question":   fmt.Sprintf("%s question %d", category, i+1),
			"category":   string(category),
			"purpose":    "purpose",
			"related_to": []int{1, 2},
		})
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func TestBankBuilderBuildsFullBank(t *testing.T) {
	retriever := &stubRetriever{passages: map[knowledge.Corpus][]string{
		knowledge.CorpusCV:        {"cv passage"},
		knowledge.CorpusKnowledge: {"knowledge passage"},
	}}
	oracle := &stubOracle{}
	for _, round := range Rounds {
		oracle.responses = append(oracle.responses, stubResponse{text: generated(round.Category, round.Category.Quota())})
	}

	builder := NewBankBuilder(retriever, oracle, prompts.NewComposer("English"), 3, zap.NewNop())
	questions, err := builder.Build(context.Background(), "Go developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.Category{
		models.Behavioral, models.Behavioral,
		models.Technical, models.Technical, models.Technical,
		models.CVBased, models.CVBased,
		models.Creative,
	}
	if len(questions) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(questions))
	}
	for i, q := range questions {
		if q.ID != i+1 {
			t.Fatalf("question %d: expected id %d, got %d", i, i+1, q.ID)
		}
		if q.Category != want[i] {
			t.Fatalf("question %d: expected category %s, got %s", q.ID, want[i], q.Category)
		}
	}
	if questions[0].RelatedTo != "[1,2]" {
		t.Fatalf("expected related_to to be kept as text, got %q", questions[0].RelatedTo)
	}

	if len(retriever.calls) != 5 {
		t.Fatalf("expected 5 retrievals, got %d", len(retriever.calls))
	}
	creative := retriever.calls[3:]
	if creative[0].corpus != knowledge.CorpusCV || creative[1].corpus != knowledge.CorpusKnowledge {
		t.Fatalf("expected creative round to query both corpora, got %+v", creative)
	}
	for _, call := range retriever.calls {
		if call.k != 3 {
			t.Fatalf("expected k=3, got %d", call.k)
		}
	}

	last := oracle.prompts[3]
	if !strings.Contains(last, "cv passage") || !strings.Contains(last, "knowledge passage") {
		t.Fatalf("expected creative prompt to blend both corpora:\n%s", last)
	}
	if !strings.Contains(oracle.prompts[0], "Go developer") {
		t.Fatalf("expected position in generation prompt:\n%s", oracle.prompts[0])
	}
}

func TestBankBuilderAcceptsShortfalls(t *testing.T) {
	behavioral := "Here you go:\n```json\n" + `[
		{"question": "Tell me about a conflict", "category": "creative"},
		{"question": "   "},
		{"question": "Describe a deadline you missed"},
		{"question": "Extra question"}
	]` + "\n```"

	oracle := &stubOracle{responses: []stubResponse{
		{text: behavioral},
		{text: generated(models.Technical, 1)},
		{err: errors.New("service unavailable")},
		{text: "garbage {not json"},
	}}

	builder := NewBankBuilder(&stubRetriever{}, oracle, nil, 0, zap.NewNop())
	questions, err := builder.Build(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d: %+v", len(questions), questions)
	}

	expect := []struct {
		id       int
		category models.Category
		text     string
	}{
		{1, models.Behavioral, "Tell me about a conflict"},
		{2, models.Behavioral, "Describe a deadline you missed"},
		{3, models.Technical, "technical question 1"},
	}
	for i, e := range expect {
		q := questions[i]
		if q.ID != e.id || q.Category != e.category || q.Question != e.text {
			t.Fatalf("question %d: expected %+v, got %+v", i, e, q)
		}
	}

	if len(oracle.prompts) != 4 {
		t.Fatalf("expected one generation call per round without retries, got %d", len(oracle.prompts))
	}
}

func TestBankBuilderFailsWhenIndexUnavailable(t *testing.T) {
	retriever := &stubRetriever{err: fmt.Errorf("%w: cv corpus", knowledge.ErrIndexUnavailable)}
	oracle := &stubOracle{}

	_, err := NewBankBuilder(retriever, oracle, nil, 3, zap.NewNop()).Build(context.Background(), "")
	if !errors.Is(err, knowledge.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
	if len(oracle.prompts) != 0 {
		t.Fatalf("expected no generation without context, got %d calls", len(oracle.prompts))
	}
}

func TestBankBuilderStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	oracle := ai.OracleFunc(func(ctx context.Context, _ string) (string, error) {
		calls++
		return "", ctx.Err()
	})

	questions, err := NewBankBuilder(&stubRetriever{}, oracle, nil, 3, zap.NewNop()).Build(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if questions != nil {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
	if calls != 1 {
		t.Fatalf("expected generation to stop after the first round, got %d calls", calls)
	}
}

func TestDecodeQuestionRejectsUnknownCategory(t *testing.T) {
	item := map[string]any{"question": "Why Go?"}

	if _, ok := decodeQuestion(item, models.Category("trivia")); ok {
		t.Fatal("expected unknown category to be rejected")
	}
	if q, ok := decodeQuestion(item, models.Technical); !ok || q.Category != models.Technical {
		t.Fatalf("expected technical question, got %+v (ok=%v)", q, ok)
	}
}
