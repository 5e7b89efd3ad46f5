package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/interviewer/internal/models"
)

var (
	//go:embed templates/generation.md
	generationTemplate string
	//go:embed templates/scoring.md
	scoringTemplate string
	//go:embed templates/profile.md
	profileTemplate string
)

const (
	defaultLanguage = "English"
	noContext       = "(no relevant context found)"
	anyPosition     = "not specified"
)

type categoryBrief struct {
	title string
	focus []string
}

var briefs = map[models.Category]categoryBrief{
	models.Behavioral: {
		title: "behavioral",
		focus: []string{"teamwork", "handling challenges", "motivation"},
	},
	models.Technical: {
		title: "technical",
		focus: []string{"programming knowledge", "technologies and frameworks", "best practices"},
	},
	models.CVBased: {
		title: "résumé-based",
		focus: []string{"projects the candidate took part in", "work experience", "achievements"},
	},
	models.Creative: {
		title: "creative / hypothetical scenario",
		focus: []string{"problem solving", "critical thinking", "creativity at work"},
	},
}

// Composer renders generation and scoring prompts. It holds no session state.
type Composer struct {
	language string
}

// NewComposer returns a Composer producing prompts that ask for output in language.
func NewComposer(language string) *Composer {
	language = strings.TrimSpace(language)
	if language == "" {
		language = defaultLanguage
	}
	return &Composer{language: language}
}

// GenerationInput is the material for one question-generation round.
type GenerationInput struct {
	Category  models.Category
	CV        []string
	Knowledge []string
	Position  string
}

// Generation renders the prompt asking for the questions of one category.
func (c *Composer) Generation(in GenerationInput) string {
	brief := briefs[in.Category]
	if brief.title == "" {
		brief.title = string(in.Category)
	}

	focus := make([]string, 0, len(brief.focus))
	for _, f := range brief.focus {
		focus = append(focus, "  - "+f)
	}

	position := strings.TrimSpace(in.Position)
	if position == "" {
		position = anyPosition
	}

	return render(generationTemplate, map[string]string{
		"CONTEXT":        generationContext(in),
		"POSITION":       position,
		"COUNT":          fmt.Sprint(in.Category.Quota()),
		"CATEGORY_TITLE": brief.title,
		"CATEGORY":       string(in.Category),
		"LANGUAGE":       c.language,
		"FOCUS":          strings.Join(focus, "\n"),
		"FIRST_ID":       fmt.Sprint(in.Category.FirstID()),
		"EXAMPLE":        generationExample(in.Category),
	})
}

// Scoring renders the prompt asking to score answer to q with the category rubric.
func (c *Composer) Scoring(q models.Question, answer string, passages []string) string {
	rubric := q.Category.Rubric()

	lines := make([]string, 0, len(rubric.Dimensions))
	for i, d := range rubric.Dimensions {
		lines = append(lines, fmt.Sprintf("%d. %s (%s): %s", i+1, d.Title, d.Key, d.Description))
	}

	return render(scoringTemplate, map[string]string{
		"CATEGORY": string(q.Category),
		"QUESTION": strings.TrimSpace(q.Question),
		"ANSWER":   strings.TrimSpace(answer),
		"CONTEXT":  joinPassages(passages),
		"RUBRIC":   strings.Join(lines, "\n"),
		"LANGUAGE": c.language,
		"EXAMPLE":  scoringExample(rubric),
	})
}

// ProfileExtraction renders the prompt asking to extract a candidate profile from résumé passages.
func (c *Composer) ProfileExtraction(passages []string) string {
	example := `{
  "name": "Full name",
  "email": "name@example.com",
  "phone": "+1 555 0100",
  "position": "Desired or current position",
  "experience_years": 3,
  "education": "Degree, institution",
  "skills": ["Go", "SQL"],
  "summary": "Two-sentence professional summary"
}`
	return render(profileTemplate, map[string]string{
		"CONTEXT": joinPassages(passages),
		"EXAMPLE": example,
	})
}

func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func generationContext(in GenerationInput) string {
	if in.Category == models.Creative {
		return "Résumé:\n" + joinPassages(in.CV) + "\n\nKnowledge:\n" + joinPassages(in.Knowledge)
	}
	return joinPassages(append(slices.Clone(in.CV), in.Knowledge...))
}

func joinPassages(passages []string) string {
	kept := make([]string, 0, len(passages))
	for _, p := range passages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return noContext
	}
	return strings.Join(kept, "\n---\n")
}

func generationExample(category models.Category) string {
	quota := category.Quota()
	first := category.FirstID()

	examples := make([]models.Question, 0, quota)
	for i := 0; i < quota; i++ {
		examples = append(examples, models.Question{
			ID:        first + i,
			Question:  fmt.Sprintf("Question %d", i+1),
			Category:  category,
			Purpose:   "What this question evaluates",
			RelatedTo: relatedTo(first, quota, first+i),
		})
	}

	data, _ := json.MarshalIndent(examples, "", "  ")
	return string(data)
}

func relatedTo(first, quota, id int) string {
	if quota < 2 {
		return "Combines the résumé with the technical knowledge"
	}
	others := make([]string, 0, quota-1)
	for other := first; other < first+quota; other++ {
		if other != id {
			others = append(others, fmt.Sprint(other))
		}
	}
	return "Related to question(s) " + strings.Join(others, ", ")
}

func scoringExample(rubric models.Rubric) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, key := range rubric.Keys() {
		fmt.Fprintf(&b, "  %q: 7,\n", key)
	}
	b.WriteString("  \"total\": 7,\n")
	b.WriteString("  \"feedback\": \"Detailed comments about the answer\"\n")
	b.WriteString("}")
	return b.String()
}
