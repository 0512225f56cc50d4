package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"professor-ai-api/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptLessonPlanV1        PromptID = "lesson_plan_v1"
	PromptContextualSubjectV1 PromptID = "contextual_subject_v1"
	PromptQuestionSetV1       PromptID = "question_set_v1"
	PromptCorrectionV1        PromptID = "correction_v1"
	PromptChatV1              PromptID = "chat_v1"
)

// ForTask maps a task kind to its prompt id.
func ForTask(task entity.TaskKind) (PromptID, error) {
	switch task {
	case entity.TaskLessonPlan:
		return PromptLessonPlanV1, nil
	case entity.TaskContextualSubject:
		return PromptContextualSubjectV1, nil
	case entity.TaskQuestionSet:
		return PromptQuestionSetV1, nil
	case entity.TaskCorrection:
		return PromptCorrectionV1, nil
	default:
		return "", fmt.Errorf("no prompt for task: %s", task)
	}
}

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

// SystemText returns just the system instruction for a prompt id. The chat
// endpoint uses this to seed the transcript without a user template.
func (r *Registry) SystemText(id PromptID) (string, error) {
	systemPath, _, err := resolvePromptFiles(id)
	if err != nil {
		return "", err
	}
	return readEmbeddedText(systemPath)
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptLessonPlanV1:
		return "templates/lesson_plan_v1.system.txt", "templates/lesson_plan_v1.user.txt", nil
	case PromptContextualSubjectV1:
		return "templates/contextual_subject_v1.system.txt", "templates/contextual_subject_v1.user.txt", nil
	case PromptQuestionSetV1:
		return "templates/question_set_v1.system.txt", "templates/question_set_v1.user.txt", nil
	case PromptCorrectionV1:
		return "templates/correction_v1.system.txt", "templates/correction_v1.user.txt", nil
	case PromptChatV1:
		return "templates/chat_v1.system.txt", "templates/chat_v1.system.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
