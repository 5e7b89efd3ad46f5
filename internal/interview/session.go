// Package interview runs an interview session: it builds the question bank,
// asks each question, scores the answers and withholds the creative question
// unless the running average reaches models.GateThreshold.
package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/logger"
	"github.com/spigell/interviewer/internal/models"
)

// Phase is a state of the session state machine.
type Phase int

const (
	PhaseCollectingProfile Phase = iota
	PhaseGeneratingQuestions
	PhaseAsking
	PhaseScoring
	PhaseGateCheck
	PhaseTerminated
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseCollectingProfile:
		return "COLLECTING_PROFILE"
	case PhaseGeneratingQuestions:
		return "GENERATING_QUESTIONS"
	case PhaseAsking:
		return "ASKING"
	case PhaseScoring:
		return "SCORING"
	case PhaseGateCheck:
		return "GATE_CHECK"
	case PhaseTerminated:
		return "TERMINATED"
	case PhaseFinalized:
		return "FINALIZED"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Transition records one entered phase. QuestionID is set for the
// question-level phases.
type Transition struct {
	Phase      Phase
	QuestionID int
}

func (t Transition) String() string {
	if t.QuestionID > 0 {
		return fmt.Sprintf("%s(%d)", t.Phase, t.QuestionID)
	}
	return t.Phase.String()
}

// QuestionSource builds the question bank of a session.
type QuestionSource interface {
	Build(ctx context.Context, position string) ([]models.Question, error)
}

// Interviewee supplies the answer to a question. It blocks until the answer
// is available. An error abandons the session.
type Interviewee interface {
	Answer(ctx context.Context, q models.Question) (string, error)
}

// AnswerScorer grades one answer.
type AnswerScorer interface {
	Score(ctx context.Context, q models.Question, answer string) models.AnswerRecord
}

// Exporter persists a finalized session and returns where it was written.
type Exporter interface {
	Export(res *Result) (string, error)
}

// Observer is notified of session progress.
type Observer interface {
	QuestionsReady(questions []models.Question)
	QuestionPresented(q models.Question, position, total int)
	AnswerSkipped(q models.Question)
	AnswerScored(q models.Question, rec models.AnswerRecord, state models.SessionState)
	GateClosed(average, threshold float64)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) QuestionsReady([]models.Question)                                       {}
func (NopObserver) QuestionPresented(models.Question, int, int)                            {}
func (NopObserver) AnswerSkipped(models.Question)                                          {}
func (NopObserver) AnswerScored(models.Question, models.AnswerRecord, models.SessionState) {}
func (NopObserver) GateClosed(float64, float64)                                            {}

// Deps aggregates the collaborators of a session.
type Deps struct {
	Profiles  ProfileSource
	Questions QuestionSource
	Answers   Interviewee
	Scorer    AnswerScorer
	Exporter  Exporter
	Observer  Observer
	Logger    *zap.Logger
}

// Result is the finalized session.
type Result struct {
	State      models.SessionState
	Terminated bool
	StartedAt  time.Time
	FinishedAt time.Time
	Trace      []Transition
	ExportPath string
	ExportErr  error
}

// Conductor drives one session through its phases.
type Conductor struct {
	deps Deps

	// Position is used for question generation when the profile has none.
	Position string
	Now      func() time.Time
	NewID    func() string
}

// New creates a conductor. Profiles, Questions, Answers and Scorer are required.
func New(deps Deps) *Conductor {
	if deps.Observer == nil {
		deps.Observer = NopObserver{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Conductor{
		deps:  deps,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Run conducts the session to FINALIZED and exports it exactly once. Errors
// are fatal: profile collection, question generation and answer intake
// failures end the session without an export. A failed export is reported
// in Result.ExportErr.
func (c *Conductor) Run(ctx context.Context) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	log := c.deps.Logger
	res := &Result{StartedAt: c.Now()}
	enter := func(phase Phase, questionID int) {
		t := Transition{Phase: phase, QuestionID: questionID}
		res.Trace = append(res.Trace, t)
		log.Debug("session phase", zap.String("phase", t.String()))
	}

	enter(PhaseCollectingProfile, 0)
	profile, err := c.deps.Profiles.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting candidate profile: %w", err)
	}
	profile.InterviewDate = res.StartedAt

	position := strings.TrimSpace(profile.Position)
	if position == "" {
		position = strings.TrimSpace(c.Position)
	}

	enter(PhaseGeneratingQuestions, 0)
	questions, err := c.deps.Questions.Build(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("interview interrupted: %w", err)
	}
	c.deps.Observer.QuestionsReady(questions)

	state := models.NewSessionState(c.NewID(), profile, questions)
	log = log.With(logger.Session(state.ID))
	log.Info("interview started",
		zap.String("candidate", profile.Name),
		zap.Int("questions", len(questions)),
	)

	for i, q := range state.Questions {
		qlog := log.With(logger.QuestionFields(q.ID, string(q.Category))...)

		if q.Category == models.Creative {
			enter(PhaseGateCheck, q.ID)
			average := state.Average()
			if average < models.GateThreshold {
				qlog.Info("gate closed",
					zap.Float64("average", average),
					zap.Float64("threshold", models.GateThreshold),
				)
				c.deps.Observer.GateClosed(average, models.GateThreshold)
				res.Terminated = true
				break
			}
			qlog.Info("gate open", zap.Float64("average", average))
		}

		enter(PhaseAsking, q.ID)
		c.deps.Observer.QuestionPresented(q, i+1, len(state.Questions))

		answer, err := c.deps.Answers.Answer(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("reading answer to question %d: %w", q.ID, err)
		}

		if strings.TrimSpace(answer) == "" {
			qlog.Info("answer skipped")
			c.deps.Observer.AnswerSkipped(q)
			continue
		}

		enter(PhaseScoring, q.ID)
		rec := c.deps.Scorer.Score(ctx, q, strings.TrimSpace(answer))
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("interview interrupted while scoring question %d: %w", q.ID, err)
		}
		rec.QuestionID = q.ID
		state = state.WithAnswer(rec)

		qlog.Info("answer recorded",
			zap.Float64("score", rec.Score),
			zap.Float64("running_total", state.RunningTotal),
			zap.Float64("average", state.Average()),
		)
		c.deps.Observer.AnswerScored(q, rec, state)
	}

	if res.Terminated {
		enter(PhaseTerminated, 0)
	}

	res.FinishedAt = c.Now()
	state.Candidate.InterviewDuration = res.FinishedAt.Sub(res.StartedAt).Minutes()
	res.State = state

	enter(PhaseFinalized, 0)
	log.Info("interview finished",
		zap.Int("answers", len(state.Answers)),
		zap.Float64("total", state.RunningTotal),
		zap.Float64("average", state.Average()),
		zap.Bool("terminated_early", res.Terminated),
	)

	if c.deps.Exporter != nil {
		res.ExportPath, res.ExportErr = c.deps.Exporter.Export(res)
		if res.ExportErr != nil {
			log.Warn("exporting results failed", zap.Error(res.ExportErr))
		} else {
			log.Info("results exported", zap.String("path", res.ExportPath))
		}
	}

	return res, nil
}

func (c *Conductor) validate() error {
	switch {
	case c.deps.Profiles == nil:
		return fmt.Errorf("profile source is required")
	case c.deps.Questions == nil:
		return fmt.Errorf("question source is required")
	case c.deps.Answers == nil:
		return fmt.Errorf("answer source is required")
	case c.deps.Scorer == nil:
		return fmt.Errorf("scorer is required")
	}
	return nil
}
