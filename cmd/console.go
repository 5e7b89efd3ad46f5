package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/interviewer/internal/interview"
	"github.com/spigell/interviewer/internal/models"
	"github.com/spigell/interviewer/internal/results"
)

const (
	PromptKeepProfile = "Yes, start the interview"
	PromptEditProfile = "Edit the profile"
)

// console prints the interview dialogue to stdout.
type console struct {
	out io.Writer
}

func (c console) QuestionsReady(questions []models.Question) {
	fmt.Fprintf(c.out, "\nPrepared %d interview question(s).\n", len(questions))
}

func (c console) QuestionPresented(q models.Question, position, total int) {
	fmt.Fprintf(c.out, "\n%s\nQuestion %d of %d (id %d, %s)\n%s\n", strings.Repeat("-", 50), position, total, q.ID, q.Category, q.Question)
	if q.Purpose != "" {
		fmt.Fprintf(c.out, "Purpose: %s\n", q.Purpose)
	}
}

func (c console) AnswerSkipped(models.Question) {
	fmt.Fprintln(c.out, "No answer given, the question is skipped.")
}

func (c console) AnswerScored(_ models.Question, rec models.AnswerRecord, state models.SessionState) {
	fmt.Fprintf(c.out, "Score: %.1f/%.0f\n", rec.Score, models.MaxScore)
	fmt.Fprintf(c.out, "Running total: %.1f/%.0f, average %.2f\n", state.RunningTotal, state.MaxPossible, state.Average())
	if rec.Feedback != "" {
		fmt.Fprintf(c.out, "Feedback: %s\n", rec.Feedback)
	}
}

func (c console) GateClosed(average, threshold float64) {
	fmt.Fprintf(c.out, "\nThe interview ends here: average %.2f is below %.1f required for the final question.\n", average, threshold)
}

func (c console) summary(res *interview.Result) {
	state := res.State
	status := results.StatusFor(state.Average(), len(state.Answers))

	percentage := 0.0
	if state.MaxPossible > 0 {
		percentage = state.RunningTotal / state.MaxPossible * 100
	}

	fmt.Fprintf(c.out, "\n%s\nINTERVIEW RESULTS\n%s\n", strings.Repeat("=", 50), strings.Repeat("=", 50))
	fmt.Fprintf(c.out, "Candidate: %s\n", state.Candidate.Name)
	fmt.Fprintf(c.out, "Answered: %d of %d question(s)\n", len(state.Answers), len(state.Questions))
	fmt.Fprintf(c.out, "Total: %.1f/%.0f (%.1f%%), average %.2f\n", state.RunningTotal, state.MaxPossible, percentage, state.Average())
	fmt.Fprintf(c.out, "Status: %s\n", status)

	for _, a := range state.Answers {
		q, _ := state.Question(a.QuestionID)
		fmt.Fprintf(c.out, "  #%d (%s): %.1f\n", a.QuestionID, q.Category, a.Score)
	}

	if res.ExportPath != "" {
		fmt.Fprintf(c.out, "Results saved to %s\n", res.ExportPath)
	}
}

// promptAnswers reads answers from the terminal.
type promptAnswers struct{}

func (promptAnswers) Answer(ctx context.Context, q models.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prompt := promptui.Prompt{Label: fmt.Sprintf("Your answer to #%d (empty to skip)", q.ID)}
	answer, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return answer, nil
}

// promptProfile collects the candidate profile, optionally starting from an
// extracted one.
type promptProfile struct {
	out       io.Writer
	extractor interview.ProfileSource
	review    bool
}

func (p promptProfile) Profile(ctx context.Context) (models.CandidateProfile, error) {
	if p.extractor == nil {
		fmt.Fprintln(p.out, "Enter the candidate profile.")
		return editProfile(models.CandidateProfile{})
	}

	profile, err := p.extractor.Profile(ctx)
	if err != nil {
		return profile, err
	}

	if !p.review {
		return profile, nil
	}

	printProfile(p.out, profile)

	selectPrompt := promptui.Select{
		Label: "Is the profile correct?",
		Items: []string{PromptKeepProfile, PromptEditProfile},
	}
	_, action, err := selectPrompt.Run()
	if err != nil {
		return profile, err
	}

	if action == PromptEditProfile {
		return editProfile(profile)
	}
	return profile, nil
}

func printProfile(out io.Writer, profile models.CandidateProfile) {
	fmt.Fprintln(out, "\nCandidate profile:")
	for _, field := range []struct{ label, value string }{
		{"Name", profile.Name},
		{"Email", profile.Email},
		{"Phone", profile.Phone},
		{"Position", profile.Position},
		{"Experience (years)", strconv.Itoa(profile.ExperienceYears)},
		{"Education", profile.Education},
		{"Skills", strings.Join(profile.Skills, ", ")},
		{"Summary", profile.Summary},
	} {
		fmt.Fprintf(out, "  %s: %s\n", field.label, field.value)
	}
}

func editProfile(profile models.CandidateProfile) (models.CandidateProfile, error) {
	ask := func(label, value string, validate promptui.ValidateFunc) (string, error) {
		prompt := promptui.Prompt{
			Label:     label,
			Default:   value,
			AllowEdit: true,
			Validate:  validate,
		}
		answer, err := prompt.Run()
		return strings.TrimSpace(answer), err
	}

	var err error
	if profile.Name, err = ask("Name", profile.Name, nil); err != nil {
		return profile, err
	}
	if profile.Email, err = ask("Email", profile.Email, nil); err != nil {
		return profile, err
	}
	if profile.Phone, err = ask("Phone", profile.Phone, nil); err != nil {
		return profile, err
	}
	if profile.Position, err = ask("Position", profile.Position, nil); err != nil {
		return profile, err
	}

	years, err := ask("Experience (years)", strconv.Itoa(profile.ExperienceYears), validateYears)
	if err != nil {
		return profile, err
	}
	profile.ExperienceYears, _ = strconv.Atoi(years)

	if profile.Education, err = ask("Education", profile.Education, nil); err != nil {
		return profile, err
	}

	skills, err := ask("Skills (comma separated)", strings.Join(profile.Skills, ", "), nil)
	if err != nil {
		return profile, err
	}
	profile.Skills = splitSkills(skills)

	if profile.Summary, err = ask("Summary", profile.Summary, nil); err != nil {
		return profile, err
	}

	return profile, nil
}

func validateYears(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	years, err := strconv.Atoi(input)
	if err != nil || years < 0 {
		return errors.New("experience must be a non-negative whole number")
	}
	return nil
}

func splitSkills(input string) []string {
	skills := make([]string, 0)
	for _, s := range strings.Split(input, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
