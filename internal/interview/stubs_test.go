package interview

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/models"
)

type retrieveCall struct {
	corpus knowledge.Corpus
	query  string
	k      int
}

type stubRetriever struct {
	passages map[knowledge.Corpus][]string
	err      error
	calls    []retrieveCall
}

func (s *stubRetriever) Retrieve(_ context.Context, corpus knowledge.Corpus, query string, k int) ([]string, error) {
	s.calls = append(s.calls, retrieveCall{corpus: corpus, query: query, k: k})
	if s.err != nil {
		return nil, s.err
	}
	return s.passages[corpus], nil
}

type stubResponse struct {
	text string
	err  error
}

type stubOracle struct {
	responses []stubResponse
	prompts   []string
}

func (s *stubOracle) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.responses) == 0 {
		return "", errors.New("unexpected oracle call")
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r.text, r.err
}

// fullBank returns a bank matching every category quota.
func fullBank() []models.Question {
	questions := make([]models.Question, 0, models.TotalQuota())
	id := 1
	for _, category := range models.Categories {
		for range category.Quota() {
			questions = append(questions, models.Question{
				ID:       id,
				Category: category,
				Question: "question " + string(category),
			})
			id++
		}
	}
	return questions
}

type stubQuestions struct {
	questions []models.Question
	err       error
	position  string
}

func (s *stubQuestions) Build(_ context.Context, position string) ([]models.Question, error) {
	s.position = position
	return s.questions, s.err
}

type scriptedAnswers struct {
	answers map[int]string
	err     error
	asked   []int
}

func (s *scriptedAnswers) Answer(_ context.Context, q models.Question) (string, error) {
	s.asked = append(s.asked, q.ID)
	if s.err != nil {
		return "", s.err
	}
	if answer, ok := s.answers[q.ID]; ok {
		return answer, nil
	}
	return "my answer to " + strings.ToLower(q.Question), nil
}

type fixedScorer struct {
	scores map[int]float64
	def    float64
	scored []int
}

func (s *fixedScorer) Score(_ context.Context, q models.Question, answer string) models.AnswerRecord {
	s.scored = append(s.scored, q.ID)
	score, ok := s.scores[q.ID]
	if !ok {
		score = s.def
	}
	return models.AnswerRecord{QuestionID: q.ID, Answer: answer, Score: score}
}

type recordingExporter struct {
	results []*Result
	err     error
}

func (r *recordingExporter) Export(res *Result) (string, error) {
	r.results = append(r.results, res)
	if r.err != nil {
		return "", r.err
	}
	return "results/interview.json", nil
}
