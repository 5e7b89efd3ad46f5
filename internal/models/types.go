package models

import (
	"slices"
	"time"
)

const (
	// MaxScore is the upper bound of every score and rubric dimension.
	MaxScore = 10.0
	// GateThreshold is the minimum running average that unlocks the creative question.
	GateThreshold = 8.0
)

// Category is the kind of an interview question.
type Category string

const (
	Behavioral Category = "behavioral"
	Technical  Category = "technical"
	CVBased    Category = "cv_based"
	Creative   Category = "creative"
)

// Categories lists every category in question-bank order.
var Categories = []Category{Behavioral, Technical, CVBased, Creative}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Quota is the number of questions a full bank holds for c.
func (c Category) Quota() int {
	switch c {
	case Behavioral:
		return 2
	case Technical:
		return 3
	case CVBased:
		return 2
	case Creative:
		return 1
	default:
		return 0
	}
}

// FirstID is the id of the first question of c in a full bank.
func (c Category) FirstID() int {
	id := 1
	for _, cat := range Categories {
		if cat == c {
			return id
		}
		id += cat.Quota()
	}
	return 0
}

// TotalQuota is the size of a full question bank.
func TotalQuota() int {
	total := 0
	for _, c := range Categories {
		total += c.Quota()
	}
	return total
}

// Dimension is one scored aspect of an answer.
type Dimension struct {
	Key         string
	Title       string
	Description string
}

// Rubric is the fixed set of five dimensions an answer is scored on.
type Rubric struct {
	Name       string
	Dimensions []Dimension
}

// Keys returns the JSON keys of the rubric dimensions in order.
func (r Rubric) Keys() []string {
	keys := make([]string, 0, len(r.Dimensions))
	for _, d := range r.Dimensions {
		keys = append(keys, d.Key)
	}
	return keys
}

var (
	technicalRubric = Rubric{
		Name: "technical",
		Dimensions: []Dimension{
			{Key: "knowledge", Title: "Knowledge", Description: "accuracy and depth of the technical facts used"},
			{Key: "application", Title: "Application", Description: "ability to apply the knowledge to a concrete problem"},
			{Key: "analysis", Title: "Analysis", Description: "step-by-step breakdown of the problem and its trade-offs"},
			{Key: "critical_thinking", Title: "Critical thinking", Description: "questioning assumptions and weighing alternatives"},
			{Key: "communication", Title: "Communication", Description: "clear, structured and concise language"},
		},
	}

	generalRubric = Rubric{
		Name: "general",
		Dimensions: []Dimension{
			{Key: "correctness", Title: "Correctness", Description: "how well the reasoning stays tied to the main point"},
			{Key: "coverage", Title: "Coverage", Description: "share of the key points that the answer addresses"},
			{Key: "reasoning", Title: "Reasoning", Description: "step-by-step analysis with stated assumptions"},
			{Key: "creativity", Title: "Creativity", Description: "novel yet sensible solutions"},
			{Key: "communication", Title: "Communication", Description: "clear, structured and concise language"},
		},
	}
)

// Rubric selects the scoring rubric for c.
func (c Category) Rubric() Rubric {
	switch c {
	case Technical:
		return technicalRubric
	case Behavioral, CVBased, Creative:
		return generalRubric
	default:
		return generalRubric
	}
}

// Question is one generated interview question.
type Question struct {
	ID        int      `json:"id"`
	Question  string   `json:"question"`
	Category  Category `json:"category"`
	Purpose   string   `json:"purpose"`
	RelatedTo string   `json:"related_to"`
}

// CandidateProfile describes the interviewed candidate.
type CandidateProfile struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Position          string    `json:"position"`
	ExperienceYears   int       `json:"experience_years"`
	Education         string    `json:"education"`
	Skills            []string  `json:"skills"`
	Summary           string    `json:"summary"`
	InterviewDate     time.Time `json:"interview_date"`
	InterviewDuration float64   `json:"interview_duration"`
}

// AnswerRecord is the scored answer to one question.
type AnswerRecord struct {
	QuestionID int                `json:"question_id"`
	Answer     string             `json:"answer"`
	Score      float64            `json:"score"`
	Criteria   map[string]float64 `json:"criteria_breakdown"`
	Feedback   string             `json:"feedback"`
}

// SessionState is the accumulated state of one interview. It is a value:
// WithAnswer returns a new state and never modifies the receiver.
type SessionState struct {
	ID           string
	Candidate    CandidateProfile
	Questions    []Question
	Answers      []AnswerRecord
	RunningTotal float64
	MaxPossible  float64
}

// NewSessionState starts a session with no answers.
func NewSessionState(id string, candidate CandidateProfile, questions []Question) SessionState {
	return SessionState{
		ID:        id,
		Candidate: candidate,
		Questions: slices.Clone(questions),
	}
}

// WithAnswer returns a copy of s with rec appended.
func (s SessionState) WithAnswer(rec AnswerRecord) SessionState {
	next := s
	next.Answers = append(slices.Clip(slices.Clone(s.Answers)), rec)
	next.RunningTotal = s.RunningTotal + rec.Score
	next.MaxPossible = MaxScore * float64(len(next.Answers))
	return next
}

// Average is the mean score of the recorded answers, or 0 when there are none.
func (s SessionState) Average() float64 {
	if len(s.Answers) == 0 {
		return 0
	}
	return s.RunningTotal / float64(len(s.Answers))
}

// Question returns the question with the given id.
func (s SessionState) Question(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
