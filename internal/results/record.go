// Package results turns a finalized interview session into its persisted
// report.
package results

import (
	"slices"
	"time"

	"github.com/spigell/interviewer/internal/interview"
	"github.com/spigell/interviewer/internal/models"
)

// Status is the categorical outcome of an interview.
type Status string

const (
	StatusExcellent    Status = "excellent"
	StatusGood         Status = "good"
	StatusAverage      Status = "average"
	StatusNotQualified Status = "not-qualified"
	StatusNoScore      Status = "no-score"
)

// StatusFor maps an average score to its band. Sessions without answers have no score.
func StatusFor(average float64, answers int) Status {
	switch {
	case answers == 0:
		return StatusNoScore
	case average >= 8:
		return StatusExcellent
	case average >= 6:
		return StatusGood
	case average >= 4:
		return StatusAverage
	default:
		return StatusNotQualified
	}
}

// Record is the persisted snapshot of one session.
type Record struct {
	CandidateInfo       models.CandidateProfile `json:"candidate_info"`
	InterviewSummary    Summary                 `json:"interview_summary"`
	QuestionsAndAnswers []QuestionAnswer        `json:"questions_and_answers"`
	DetailedScores      []DetailedScore         `json:"detailed_scores"`
	ExportInfo          ExportInfo              `json:"export_info"`
}

type Summary struct {
	TotalQuestions                 int      `json:"total_questions"`
	TotalAnswers                   int      `json:"total_answers"`
	TotalScore                     float64  `json:"total_score"`
	MaxPossibleScore               float64  `json:"max_possible_score"`
	TotalPossibleScoreAllQuestions float64  `json:"total_possible_score_all_questions"`
	AverageScore                   float64  `json:"average_score"`
	Percentage                     float64  `json:"percentage"`
	InterviewStatus                Status   `json:"interview_status"`
	TerminatedEarly                bool     `json:"terminated_early"`
	CandidateEducation             string   `json:"candidate_education"`
	CandidateSkills                []string `json:"candidate_skills"`
	CandidateSummary               string   `json:"candidate_summary"`
}

type QuestionAnswer struct {
	QuestionID        int                `json:"question_id"`
	QuestionCategory  models.Category    `json:"question_category"`
	Question          string             `json:"question"`
	QuestionPurpose   string             `json:"question_purpose"`
	QuestionRelatedTo string             `json:"question_related_to"`
	Answer            string             `json:"answer"`
	Score             float64            `json:"score"`
	MaxScore          float64            `json:"max_score"`
	Feedback          string             `json:"feedback"`
	CriteriaScores    map[string]float64 `json:"criteria_scores"`
}

type DetailedScore struct {
	QuestionID int     `json:"question_id"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
}

type ExportInfo struct {
	ExportedAt    time.Time `json:"exported_at"`
	SystemVersion string    `json:"system_version"`
	SessionID     string    `json:"session_id"`
}

// Build derives the record of res. It does not modify res.
func Build(res *interview.Result, version string, exportedAt time.Time) Record {
	state := res.State
	average := state.Average()

	percentage := 0.0
	if state.MaxPossible > 0 {
		percentage = state.RunningTotal / state.MaxPossible * 100
	}

	skills := slices.Clone(state.Candidate.Skills)
	if skills == nil {
		skills = []string{}
	}

	answers := make([]QuestionAnswer, 0, len(state.Answers))
	scores := make([]DetailedScore, 0, len(state.Answers))
	for _, a := range state.Answers {
		q, _ := state.Question(a.QuestionID)

		criteria := make(map[string]float64, len(a.Criteria))
		for k, v := range a.Criteria {
			criteria[k] = v
		}

		answers = append(answers, QuestionAnswer{
			QuestionID:        a.QuestionID,
			QuestionCategory:  q.Category,
			Question:          q.Question,
			QuestionPurpose:   q.Purpose,
			QuestionRelatedTo: q.RelatedTo,
			Answer:            a.Answer,
			Score:             a.Score,
			MaxScore:          models.MaxScore,
			Feedback:          a.Feedback,
			CriteriaScores:    criteria,
		})
		scores = append(scores, DetailedScore{
			QuestionID: a.QuestionID,
			Score:      a.Score,
			Percentage: a.Score / models.MaxScore * 100,
		})
	}

	candidate := state.Candidate
	candidate.Skills = skills

	return Record{
		CandidateInfo: candidate,
		InterviewSummary: Summary{
			TotalQuestions:                 len(state.Questions),
			TotalAnswers:                   len(state.Answers),
			TotalScore:                     state.RunningTotal,
			MaxPossibleScore:               state.MaxPossible,
			TotalPossibleScoreAllQuestions: models.MaxScore * float64(len(state.Questions)),
			AverageScore:                   average,
			Percentage:                     percentage,
			InterviewStatus:                StatusFor(average, len(state.Answers)),
			TerminatedEarly:                res.Terminated,
			CandidateEducation:             candidate.Education,
			CandidateSkills:                skills,
			CandidateSummary:               candidate.Summary,
		},
		QuestionsAndAnswers: answers,
		DetailedScores:      scores,
		ExportInfo: ExportInfo{
			ExportedAt:    exportedAt,
			SystemVersion: version,
			SessionID:     state.ID,
		},
	}
}
