package entity

import (
	"testing"
	"time"

	"professor-ai-api/pkg/errors"
)

func newResult(text string) GenerationResult {
	return GenerationResult{Text: text, GeneratedAt: time.Now().UTC()}
}

func TestSlotInitialState(t *testing.T) {
	slot := &Slot{}
	if got := slot.State(); got != SlotEmpty {
		t.Fatalf("expected empty state, got %s", got)
	}
	if slot.CanDownload() {
		t.Fatalf("empty slot must not be downloadable")
	}
}

func TestSlotApplyGeneration(t *testing.T) {
	slot := &Slot{}
	if err := slot.ApplyGeneration(newResult("plano")); err != nil {
		t.Fatalf("ApplyGeneration failed: %v", err)
	}

	if got := slot.State(); got != SlotViewing {
		t.Fatalf("expected viewing state, got %s", got)
	}
	if slot.Committed == nil || slot.Committed.Text != "plano" {
		t.Fatalf("committed not set: %+v", slot.Committed)
	}
	if !slot.CanDownload() {
		t.Fatalf("viewing slot must be downloadable")
	}

	// A second generation without reset is rejected.
	err := slot.ApplyGeneration(newResult("outro"))
	if !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if slot.Committed.Text != "plano" {
		t.Fatalf("committed changed on rejected generation: %q", slot.Committed.Text)
	}
}

func TestSlotEditSave(t *testing.T) {
	slot := &Slot{}
	if err := slot.ApplyGeneration(newResult("original")); err != nil {
		t.Fatalf("ApplyGeneration failed: %v", err)
	}

	if err := slot.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if got := slot.State(); got != SlotEditing {
		t.Fatalf("expected editing state, got %s", got)
	}
	if slot.Draft == nil || slot.Draft.Text != "original" {
		t.Fatalf("draft not seeded from committed: %+v", slot.Draft)
	}

	if err := slot.UpdateDraft("editado"); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
	if slot.Committed.Text != "original" {
		t.Fatalf("committed must not change while editing, got %q", slot.Committed.Text)
	}

	if err := slot.SaveEdit(); err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}
	if got := slot.State(); got != SlotViewing {
		t.Fatalf("expected viewing after save, got %s", got)
	}
	if slot.Committed.Text != "editado" {
		t.Fatalf("save did not commit draft, got %q", slot.Committed.Text)
	}
}

func TestSlotEditCancelIdempotent(t *testing.T) {
	slot := &Slot{}
	if err := slot.ApplyGeneration(newResult("original")); err != nil {
		t.Fatalf("ApplyGeneration failed: %v", err)
	}

	if err := slot.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if err := slot.CancelEdit(); err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}
	if slot.Committed.Text != "original" {
		t.Fatalf("cancel without changes altered committed: %q", slot.Committed.Text)
	}
	if got := slot.State(); got != SlotViewing {
		t.Fatalf("expected viewing after cancel, got %s", got)
	}

	// Cancel after a changed draft discards the change.
	if err := slot.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if err := slot.UpdateDraft("descartado"); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
	if err := slot.CancelEdit(); err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}
	if slot.Committed.Text != "original" {
		t.Fatalf("cancel committed the draft: %q", slot.Committed.Text)
	}
}

func TestSlotInvalidTransitions(t *testing.T) {
	slot := &Slot{}

	if err := slot.BeginEdit(); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("BeginEdit on empty slot: expected invalid transition, got %v", err)
	}
	if err := slot.UpdateDraft("x"); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("UpdateDraft outside editing: expected invalid transition, got %v", err)
	}
	if err := slot.SaveEdit(); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("SaveEdit outside editing: expected invalid transition, got %v", err)
	}
	if err := slot.CancelEdit(); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("CancelEdit outside editing: expected invalid transition, got %v", err)
	}

	if err := slot.ApplyGeneration(newResult("texto")); err != nil {
		t.Fatalf("ApplyGeneration failed: %v", err)
	}
	if err := slot.BeginEdit(); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if err := slot.BeginEdit(); !errors.IsCode(err, errors.CodeInvalidTransition) {
		t.Fatalf("double BeginEdit: expected invalid transition, got %v", err)
	}
}

func TestSlotReset(t *testing.T) {
	slot := &Slot{}
	if err := slot.ApplyGeneration(newResult("texto")); err != nil {
		t.Fatalf("ApplyGeneration failed: %v", err)
	}

	slot.Reset()
	if got := slot.State(); got != SlotEmpty {
		t.Fatalf("expected empty after reset, got %s", got)
	}
	if slot.Committed != nil || slot.Draft != nil || slot.Editing {
		t.Fatalf("reset left state behind: %+v", slot)
	}

	// A fresh generation is allowed again.
	if err := slot.ApplyGeneration(newResult("novo")); err != nil {
		t.Fatalf("ApplyGeneration after reset failed: %v", err)
	}
}

func TestSessionSlotsAndContext(t *testing.T) {
	session := NewSession("s1")

	if len(session.Slots) != len(AllTaskKinds) {
		t.Fatalf("expected %d slots, got %d", len(AllTaskKinds), len(session.Slots))
	}
	if session.ContextText() != "" {
		t.Fatalf("fresh session has context text %q", session.ContextText())
	}

	session.SetContext(UploadedContext{FileName: "a.txt", Text: "abc", ExtractedAt: time.Now()})
	if session.ContextText() != "abc" {
		t.Fatalf("context text = %q, want abc", session.ContextText())
	}

	session.ClearContext()
	if session.Context != nil {
		t.Fatalf("ClearContext left context behind")
	}

	// Slot materializes missing entries after decoding.
	session.Slots = nil
	slot := session.Slot(TaskQuestionSet)
	if slot == nil || slot.State() != SlotEmpty {
		t.Fatalf("Slot did not materialize an empty slot")
	}
}

func TestParseTaskKind(t *testing.T) {
	for _, task := range AllTaskKinds {
		got, err := ParseTaskKind(string(task))
		if err != nil || got != task {
			t.Fatalf("ParseTaskKind(%s) = %s, %v", task, got, err)
		}
	}
	if _, err := ParseTaskKind("essay"); err == nil {
		t.Fatalf("expected error for unknown task kind")
	}
}
