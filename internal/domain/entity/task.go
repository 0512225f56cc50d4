// Package entity defines the domain model.
package entity

import "fmt"

// TaskKind identifies one of the supported generation modes.
type TaskKind string

const (
	TaskLessonPlan        TaskKind = "lesson_plan"
	TaskContextualSubject TaskKind = "contextual_subject"
	TaskQuestionSet       TaskKind = "question_set"
	TaskCorrection        TaskKind = "correction"
)

// AllTaskKinds lists every supported task kind, in presentation order.
var AllTaskKinds = []TaskKind{
	TaskLessonPlan,
	TaskContextualSubject,
	TaskQuestionSet,
	TaskCorrection,
}

// ParseTaskKind validates a task kind received from the outside.
func ParseTaskKind(s string) (TaskKind, error) {
	switch TaskKind(s) {
	case TaskLessonPlan, TaskContextualSubject, TaskQuestionSet, TaskCorrection:
		return TaskKind(s), nil
	default:
		return "", fmt.Errorf("unknown task kind: %q", s)
	}
}

// Title returns the document heading used when exporting this task's content.
func (t TaskKind) Title() string {
	switch t {
	case TaskLessonPlan:
		return "Plano de Aula"
	case TaskContextualSubject:
		return "Assunto Contextualizado"
	case TaskQuestionSet:
		return "Questões"
	case TaskCorrection:
		return "Correção de Questões"
	default:
		return string(t)
	}
}

// ExportFileName returns the download filename for this task's document.
func (t TaskKind) ExportFileName() string {
	switch t {
	case TaskLessonPlan:
		return "plano_de_aula.docx"
	case TaskContextualSubject:
		return "assunto_contextualizado.docx"
	case TaskQuestionSet:
		return "questoes.docx"
	case TaskCorrection:
		return "correcao.docx"
	default:
		return string(t) + ".docx"
	}
}
