package teaching

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"professor-ai-api/internal/application/exporting"
	"professor-ai-api/internal/application/extraction"
	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/internal/infrastructure/persistence/memory"
	wfmodel "professor-ai-api/internal/workflow/model"
	"professor-ai-api/pkg/errors"
)

// fakeRunner records its input and returns a canned result or error.
type fakeRunner struct {
	lastInput *wfmodel.GenerationInput
	text      string
	err       error
}

func (f *fakeRunner) Run(_ context.Context, in *wfmodel.GenerationInput) (string, string, string, error) {
	f.lastInput = in
	if f.err != nil {
		return "", "", "", f.err
	}
	return f.text, "openai", "gpt-4o-mini", nil
}

func newTestService(t *testing.T, runner *fakeRunner) (*Service, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore(30 * time.Minute)
	t.Cleanup(store.Close)
	svc := NewService(store, runner, extraction.NewExtractor(1<<20), exporting.NewExporter())
	return svc, store
}

func mustCreateSession(t *testing.T, svc *Service) *entity.Session {
	t.Helper()
	session, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return session
}

func validQuestionSet() QuestionSetRequest {
	return QuestionSetRequest{
		Grade: "EF - 6º Ano", Subject: "Matemática", Topic: "Frações",
		Difficulty: "Fácil", Count: 5, Format: "Objetivas",
	}
}

func TestGenerateCommitsResult(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{text: "1) Quanto é 1/2 + 1/4?"}
	svc, _ := newTestService(t, runner)
	session := mustCreateSession(t, svc)

	result, err := svc.Generate(ctx, session.ID, validQuestionSet())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Text != runner.text {
		t.Fatalf("result text = %q", result.Text)
	}
	if runner.lastInput.Task != entity.TaskQuestionSet {
		t.Fatalf("runner got task %s", runner.lastInput.Task)
	}

	slot, err := svc.Slot(ctx, session.ID, entity.TaskQuestionSet)
	if err != nil {
		t.Fatalf("Slot failed: %v", err)
	}
	if slot.State() != entity.SlotViewing {
		t.Fatalf("expected viewing, got %s", slot.State())
	}

	// A second submit without reset is rejected.
	if _, err := svc.Generate(ctx, session.ID, validQuestionSet()); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestGenerateValidationLeavesSlotEmpty(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{text: "unused"}
	svc, _ := newTestService(t, runner)
	session := mustCreateSession(t, svc)

	req := validQuestionSet()
	req.Difficulty = ""
	if _, err := svc.Generate(ctx, session.ID, req); !errors.IsCode(err, errors.CodeValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if runner.lastInput != nil {
		t.Fatalf("LLM must not be called on validation failure")
	}

	slot, _ := svc.Slot(ctx, session.ID, entity.TaskQuestionSet)
	if slot.State() != entity.SlotEmpty {
		t.Fatalf("expected empty slot, got %s", slot.State())
	}
}

func TestGenerateLLMFailureLeavesSlotEmpty(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{err: fmt.Errorf("upstream timeout")}
	svc, _ := newTestService(t, runner)
	session := mustCreateSession(t, svc)

	_, err := svc.Generate(ctx, session.ID, validQuestionSet())
	if !errors.IsCode(err, errors.CodeLLMCallFailed) {
		t.Fatalf("expected LLM call failure, got %v", err)
	}

	slot, _ := svc.Slot(ctx, session.ID, entity.TaskQuestionSet)
	if slot.State() != entity.SlotEmpty {
		t.Fatalf("expected empty slot after failure, got %s", slot.State())
	}

	// The user may resubmit after a failure.
	runner.err = nil
	runner.text = "questões"
	if _, err := svc.Generate(ctx, session.ID, validQuestionSet()); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
}

func TestUploadContextFeedsPrompt(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{text: "ok"}
	svc, _ := newTestService(t, runner)
	session := mustCreateSession(t, svc)

	uploaded, err := svc.UploadContext(ctx, session.ID, "notas.txt", strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("UploadContext failed: %v", err)
	}
	if uploaded.Text != "abc" {
		t.Fatalf("extracted text = %q, want abc", uploaded.Text)
	}

	if _, err := svc.Generate(ctx, session.ID, validQuestionSet()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	block, _ := runner.lastInput.Vars["context_block"].(string)
	if block != "Utilize o seguinte contexto:\nabc\n\n" {
		t.Fatalf("context block = %q", block)
	}
}

func TestUploadContextFailureKeepsPrior(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRunner{text: "ok"})
	session := mustCreateSession(t, svc)

	if _, err := svc.UploadContext(ctx, session.ID, "notas.txt", strings.NewReader("abc")); err != nil {
		t.Fatalf("UploadContext failed: %v", err)
	}

	// Unsupported format must not clear the prior context.
	_, err := svc.UploadContext(ctx, session.ID, "foto.png", bytes.NewReader([]byte{1, 2, 3}))
	if !errors.IsCode(err, errors.CodeUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ContextText() != "abc" {
		t.Fatalf("prior context lost: %q", got.ContextText())
	}
}

func TestEditFlowAndDownload(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{text: "texto gerado"}
	svc, _ := newTestService(t, runner)
	session := mustCreateSession(t, svc)

	if _, err := svc.Generate(ctx, session.ID, validQuestionSet()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.BeginEdit(ctx, session.ID, entity.TaskQuestionSet); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if _, err := svc.UpdateDraft(ctx, session.ID, entity.TaskQuestionSet, "texto editado"); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	// Download while editing must export the committed text, not the draft.
	data, fileName, err := svc.Download(ctx, session.ID, entity.TaskQuestionSet)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if fileName != "questoes.docx" {
		t.Fatalf("file name = %q", fileName)
	}
	text, err := extraction.NewExtractor(1<<20).Extract(ctx, "questoes.docx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if !strings.Contains(text, "texto gerado") || strings.Contains(text, "texto editado") {
		t.Fatalf("download must reflect committed text, got:\n%s", text)
	}

	if _, err := svc.SaveEdit(ctx, session.ID, entity.TaskQuestionSet); err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}
	data, _, err = svc.Download(ctx, session.ID, entity.TaskQuestionSet)
	if err != nil {
		t.Fatalf("Download after save failed: %v", err)
	}
	text, err = extraction.NewExtractor(1<<20).Extract(ctx, "questoes.docx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-extract failed: %v", err)
	}
	if !strings.Contains(text, "texto editado") {
		t.Fatalf("download must reflect the saved edit, got:\n%s", text)
	}
}

func TestConcurrentDraftUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRunner{text: "texto gerado"})
	session := mustCreateSession(t, svc)

	if _, err := svc.Generate(ctx, session.ID, validQuestionSet()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.BeginEdit(ctx, session.ID, entity.TaskQuestionSet); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}

	// Parallel requests touching the same session must each work on their
	// own copy of the stored state; run with -race.
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				text := fmt.Sprintf("rascunho %d-%d", g, i)
				if _, err := svc.UpdateDraft(ctx, session.ID, entity.TaskQuestionSet, text); err != nil {
					t.Errorf("UpdateDraft failed: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	slot, err := svc.Slot(ctx, session.ID, entity.TaskQuestionSet)
	if err != nil {
		t.Fatalf("Slot failed: %v", err)
	}
	if slot.Draft == nil || !strings.HasPrefix(slot.Draft.Text, "rascunho ") {
		t.Fatalf("draft after concurrent updates = %+v", slot.Draft)
	}
}

func TestDownloadEmptySlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRunner{text: "x"})
	session := mustCreateSession(t, svc)

	if _, _, err := svc.Download(ctx, session.ID, entity.TaskLessonPlan); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRunner{text: "x"})
	session := mustCreateSession(t, svc)

	if err := svc.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, session.ID); !errors.IsCode(err, errors.CodeSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if err := svc.DeleteSession(ctx, session.ID); !errors.IsCode(err, errors.CodeSessionNotFound) {
		t.Fatalf("expected session not found on double delete, got %v", err)
	}
}
