package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"professor-ai-api/internal/config"
	"professor-ai-api/internal/domain/entity"
	wfmodel "professor-ai-api/internal/workflow/model"
)

type recordingModel struct {
	reply    string
	messages []*schema.Message
}

func (m *recordingModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.messages = in
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *recordingModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	reader, writer := schema.Pipe[*schema.Message](1)
	writer.Send(msg, nil)
	writer.Close()
	return reader, nil
}

type recordingFactory struct {
	chatModel    *recordingModel
	lastProvider string
}

func (f *recordingFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.lastProvider = name
	return f.chatModel, nil
}

func questionSetInput() *wfmodel.GenerationInput {
	return &wfmodel.GenerationInput{
		Task: entity.TaskQuestionSet,
		Vars: map[string]any{
			"context_block": "",
			"grade":         "EF - 6º Ano",
			"subject":       "Matemática",
			"topic":         "Frações",
			"count":         "5",
			"difficulty":    "Fácil",
			"format":        "objetivas",
		},
	}
}

func TestGenerationChainInvoke(t *testing.T) {
	chatModel := &recordingModel{reply: "1) Questão"}
	chain := NewGenerationChain(&recordingFactory{chatModel: chatModel})

	msg, err := chain.Invoke(context.Background(), questionSetInput())
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if msg.Content != "1) Questão" {
		t.Fatalf("content = %q", msg.Content)
	}

	// Two rendered messages reach the model: system then user.
	if len(chatModel.messages) != 2 {
		t.Fatalf("model got %d messages", len(chatModel.messages))
	}
	if chatModel.messages[0].Role != schema.System {
		t.Fatalf("first role = %s", chatModel.messages[0].Role)
	}
	user := chatModel.messages[1].Content
	if !strings.Contains(user, "5 questões objetivas") || !strings.Contains(user, "EF - 6º Ano") {
		t.Fatalf("user prompt = %q", user)
	}
	if strings.Contains(user, "{") {
		t.Fatalf("unresolved placeholder in prompt: %q", user)
	}
}

func TestGenerationChainNilInput(t *testing.T) {
	chain := NewGenerationChain(&recordingFactory{chatModel: &recordingModel{reply: "x"}})
	if _, err := chain.Invoke(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil input")
	}
}

func TestRunnerFillsDefaults(t *testing.T) {
	chatModel := &recordingModel{reply: "plano"}
	factory := &recordingFactory{chatModel: chatModel}
	cfg := &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {Model: "gpt-4o-mini"},
			},
		},
	}
	runner := NewRunner(NewGenerationChain(factory), cfg)

	in := questionSetInput()
	text, provider, modelName, err := runner.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if text != "plano" {
		t.Fatalf("text = %q", text)
	}
	if provider != "openai" || modelName != "gpt-4o-mini" {
		t.Fatalf("defaults not applied: provider=%q model=%q", provider, modelName)
	}
}

func TestSystemPromptsNonEmpty(t *testing.T) {
	for _, task := range entity.AllTaskKinds {
		msg, err := NewGenerationChain(&recordingFactory{chatModel: &recordingModel{reply: "ok"}}).
			Invoke(context.Background(), &wfmodel.GenerationInput{Task: task, Vars: fullVarsFor(task)})
		if err != nil {
			t.Fatalf("Invoke(%s) failed: %v", task, err)
		}
		if msg.Content == "" {
			t.Fatalf("empty reply for %s", task)
		}
	}
}

func fullVarsFor(task entity.TaskKind) map[string]any {
	switch task {
	case entity.TaskLessonPlan:
		return map[string]any{
			"context_block": "", "grade": "EF - 6º Ano", "subject": "Matemática",
			"chapter": "N/A", "module": "N/A", "topic": "Frações",
			"duration": "50", "methodology": "Expositiva", "class_profile": "N/A",
		}
	case entity.TaskContextualSubject:
		return map[string]any{
			"context_block": "", "grade": "EF - 6º Ano", "subject": "Matemática",
			"topic": "Frações", "interest": "Futebol",
		}
	case entity.TaskCorrection:
		return map[string]any{
			"context_block": "", "student_answers": "1. A", "answer_key": "1. B",
			"format": "objetivas",
		}
	default:
		return questionSetInput().Vars
	}
}
