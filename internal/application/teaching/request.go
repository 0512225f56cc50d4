package teaching

import (
	"fmt"
	"strings"

	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/pkg/errors"
)

// GenerationRequest is the typed field set for one task kind. Validate
// enforces mandatory fields, bounds and catalog membership; PromptVars only
// formats, it never validates.
type GenerationRequest interface {
	Task() entity.TaskKind
	Validate() error
	PromptVars(contextText string) map[string]any
}

// contextBlock renders the shared prompt prefix. Empty context means no
// block at all, not a placeholder.
func contextBlock(contextText string) string {
	if contextText == "" {
		return ""
	}
	return "Utilize o seguinte contexto:\n" + contextText + "\n\n"
}

// orNA substitutes the explicit marker for empty optional fields.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// formatWord maps the answer-format option to the word used inside the
// prompt text. Applied identically for question sets and corrections.
func formatWord(format string) string {
	if format == "Dissertativas" {
		return "dissertativas"
	}
	return "objetivas"
}

// LessonPlanRequest holds the lesson plan form fields.
type LessonPlanRequest struct {
	Grade           string `json:"grade"`
	Subject         string `json:"subject"`
	Topic           string `json:"topic"`
	Chapter         string `json:"chapter"`
	Module          string `json:"module"`
	DurationMinutes int    `json:"duration_minutes"`
	Methodology     string `json:"methodology"`
	// ClassProfile is the list of picked class traits plus any free-text
	// entry; the prompt joins them with ", ".
	ClassProfile []string `json:"class_profile"`
}

func (r LessonPlanRequest) Task() entity.TaskKind { return entity.TaskLessonPlan }

func (r LessonPlanRequest) Validate() error {
	var fields []string
	if !contains(grades, r.Grade) {
		fields = append(fields, "grade")
	}
	if !contains(subjects, r.Subject) {
		fields = append(fields, "subject")
	}
	if !contains(methodologies, r.Methodology) {
		fields = append(fields, "methodology")
	}
	if r.DurationMinutes < 10 || r.DurationMinutes > 180 {
		fields = append(fields, "duration_minutes")
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func (r LessonPlanRequest) PromptVars(contextText string) map[string]any {
	return map[string]any{
		"context_block": contextBlock(contextText),
		"grade":         r.Grade,
		"subject":       r.Subject,
		"chapter":       orNA(r.Chapter),
		"module":        orNA(r.Module),
		"topic":         orNA(r.Topic),
		"duration":      fmt.Sprintf("%d", r.DurationMinutes),
		"methodology":   r.Methodology,
		"class_profile": orNA(strings.Join(r.ClassProfile, ", ")),
	}
}

// ContextualSubjectRequest holds the contextualized subject form fields.
type ContextualSubjectRequest struct {
	Grade    string `json:"grade"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Interest string `json:"interest"`
}

func (r ContextualSubjectRequest) Task() entity.TaskKind { return entity.TaskContextualSubject }

func (r ContextualSubjectRequest) Validate() error {
	var fields []string
	if !contains(grades, r.Grade) {
		fields = append(fields, "grade")
	}
	if !contains(subjects, r.Subject) {
		fields = append(fields, "subject")
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func (r ContextualSubjectRequest) PromptVars(contextText string) map[string]any {
	return map[string]any{
		"context_block": contextBlock(contextText),
		"grade":         r.Grade,
		"subject":       r.Subject,
		"topic":         orNA(r.Topic),
		"interest":      orNA(r.Interest),
	}
}

// QuestionSetRequest holds the question set form fields.
type QuestionSetRequest struct {
	Grade      string `json:"grade"`
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Format     string `json:"format"`
}

func (r QuestionSetRequest) Task() entity.TaskKind { return entity.TaskQuestionSet }

func (r QuestionSetRequest) Validate() error {
	var fields []string
	if !contains(grades, r.Grade) {
		fields = append(fields, "grade")
	}
	if !contains(subjects, r.Subject) {
		fields = append(fields, "subject")
	}
	if !contains(difficulties, r.Difficulty) {
		fields = append(fields, "difficulty")
	}
	if !contains(formats, r.Format) {
		fields = append(fields, "format")
	}
	if r.Count < 1 || r.Count > 20 {
		fields = append(fields, "count")
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func (r QuestionSetRequest) PromptVars(contextText string) map[string]any {
	return map[string]any{
		"context_block": contextBlock(contextText),
		"grade":         r.Grade,
		"subject":       r.Subject,
		"topic":         orNA(r.Topic),
		"count":         fmt.Sprintf("%d", r.Count),
		"difficulty":    r.Difficulty,
		"format":        formatWord(r.Format),
	}
}

// CorrectionRequest holds the question correction form fields.
type CorrectionRequest struct {
	StudentAnswers string `json:"student_answers"`
	AnswerKey      string `json:"answer_key"`
	Format         string `json:"format"`
}

func (r CorrectionRequest) Task() entity.TaskKind { return entity.TaskCorrection }

func (r CorrectionRequest) Validate() error {
	var fields []string
	if strings.TrimSpace(r.StudentAnswers) == "" {
		fields = append(fields, "student_answers")
	}
	if strings.TrimSpace(r.AnswerKey) == "" {
		fields = append(fields, "answer_key")
	}
	if !contains(formats, r.Format) {
		fields = append(fields, "format")
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func (r CorrectionRequest) PromptVars(contextText string) map[string]any {
	return map[string]any{
		"context_block":   contextBlock(contextText),
		"student_answers": r.StudentAnswers,
		"answer_key":      r.AnswerKey,
		"format":          formatWord(r.Format),
	}
}

func validationError(fields []string) error {
	return errors.New(errors.CodeValidationFailed, "validation failed").
		WithDetail("missing or invalid mandatory fields").
		WithFields(fields...)
}
