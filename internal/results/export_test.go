package results

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/interview"
	"github.com/spigell/interviewer/internal/models"
)

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 5, 3, 0, time.UTC)

	tests := []struct {
		name string
		want string
	}{
		{name: "Jane Doe", want: "interview_Jane_Doe_20261014_090503.json"},
		{name: "  Nguyễn Văn A ", want: "interview_Nguyễn_Văn_A_20261014_090503.json"},
		{name: "../../etc/passwd", want: "interview_etc_passwd_20261014_090503.json"},
		{name: "", want: "interview_candidate_20261014_090503.json"},
		{name: "!!!", want: "interview_candidate_20261014_090503.json"},
	}

	for _, tt := range tests {
		if got := FileName(tt.name, at); got != tt.want {
			t.Fatalf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

type staticQuestions []models.Question

func (s staticQuestions) Build(context.Context, string) ([]models.Question, error) {
	return s, nil
}

type constantAnswers struct{}

func (constantAnswers) Answer(context.Context, models.Question) (string, error) {
	return "an answer", nil
}

type constantScorer float64

func (s constantScorer) Score(_ context.Context, q models.Question, answer string) models.AnswerRecord {
	return models.AnswerRecord{QuestionID: q.ID, Answer: answer, Score: float64(s), Criteria: map[string]float64{}}
}

func fullBank() staticQuestions {
	var questions staticQuestions
	id := 1
	for _, category := range models.Categories {
		for range category.Quota() {
			questions = append(questions, models.Question{ID: id, Category: category, Question: "q"})
			id++
		}
	}
	return questions
}

func runSession(t *testing.T, score float64) (*interview.Result, Record) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "nested", "results")
	exporter := &Exporter{
		Dir:     dir,
		Version: "test",
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) },
	}

	c := interview.New(interview.Deps{
		Profiles: interview.ProfileFunc(func(context.Context) (models.CandidateProfile, error) {
			return models.CandidateProfile{Name: "Jane"}, nil
		}),
		Questions: fullBank(),
		Answers:   constantAnswers{},
		Scorer:    constantScorer(score),
		Exporter:  exporter,
	})

	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExportErr != nil {
		t.Fatalf("unexpected export error: %v", res.ExportErr)
	}

	if want := filepath.Join(dir, "interview_Jane_20260101_120000.json"); res.ExportPath != want {
		t.Fatalf("expected export path %q, got %q", want, res.ExportPath)
	}

	data, err := os.ReadFile(res.ExportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	return res, record
}

func TestExportAfterOpenGate(t *testing.T) {
	_, record := runSession(t, 8.0)

	s := record.InterviewSummary
	if s.TotalAnswers != 8 || s.InterviewStatus != StatusExcellent || s.TerminatedEarly {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestExportAfterClosedGate(t *testing.T) {
	res, record := runSession(t, 5.0)

	if !res.Terminated {
		t.Fatal("expected early termination")
	}
	s := record.InterviewSummary
	if s.TotalQuestions != 8 || s.TotalAnswers != 7 || s.AverageScore != 5.0 || s.InterviewStatus != StatusAverage {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.TotalPossibleScoreAllQuestions != 80 || s.MaxPossibleScore != 70 {
		t.Fatalf("unexpected maxima: %+v", s)
	}
	for _, qa := range record.QuestionsAndAnswers {
		if qa.QuestionID == 8 {
			t.Fatal("creative question must not be exported when withheld")
		}
	}
}

func TestExportFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	exporter := &Exporter{Dir: filepath.Join(blocker, "results")}
	state := models.NewSessionState("id", models.CandidateProfile{}, nil)
	if _, err := exporter.Export(&interview.Result{State: state}); err == nil {
		t.Fatal("expected error when the results directory cannot be created")
	}
}

func TestExportWritesSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	exporter := &Exporter{
		Dir:  dir,
		XLSX: true,
		Now:  func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) },
	}

	questions := []models.Question{{ID: 1, Category: models.Technical, Question: "What is a channel?"}}
	state := models.NewSessionState("id", models.CandidateProfile{Name: "Jane"}, questions)
	state = state.WithAnswer(models.AnswerRecord{QuestionID: 1, Answer: "A typed conduit", Score: 9, Feedback: "precise"})

	path, err := exporter.Export(&interview.Result{State: state})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := filepath.Join(dir, "interview_Jane_20260203_040506.xlsx")
	if filepath.Join(dir, "interview_Jane_20260203_040506.json") != path {
		t.Fatalf("unexpected json path %q", path)
	}

	f, err := excelize.OpenFile(report)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"A1": "ID",
		"C2": "What is a channel?",
		"D2": "A typed conduit",
		"E2": "9",
		"F2": "precise",
		"A4": "Candidate",
		"B4": "Jane",
		"B6": "excellent",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Fatalf("cell %s: expected %q, got %q", cell, want, got)
		}
	}
}
