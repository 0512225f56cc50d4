package entity

import (
	"time"

	"professor-ai-api/pkg/errors"
)

// SlotState names the state of one task slot's generation lifecycle.
type SlotState string

const (
	SlotEmpty   SlotState = "empty"
	SlotViewing SlotState = "viewing"
	SlotEditing SlotState = "editing"
)

// GenerationResult is one piece of generated text.
type GenerationResult struct {
	Text        string    `json:"text"`
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Slot is the per-task generation state machine:
// empty -> viewing (successful generation), viewing -> editing (edit),
// editing -> viewing (save or cancel), viewing -> empty (start new).
//
// Invariant: Editing implies both Committed and Draft are non-nil.
// Download always reads Committed, never Draft.
type Slot struct {
	Committed *GenerationResult `json:"committed,omitempty"`
	Draft     *GenerationResult `json:"draft,omitempty"`
	Editing   bool              `json:"editing"`
}

// State reports the slot's current state.
func (s *Slot) State() SlotState {
	switch {
	case s.Committed == nil:
		return SlotEmpty
	case s.Editing:
		return SlotEditing
	default:
		return SlotViewing
	}
}

// ApplyGeneration commits a fresh generation result. Only legal from the
// empty state; an existing result must be reset first.
func (s *Slot) ApplyGeneration(result GenerationResult) error {
	if s.Committed != nil {
		return errors.New(errors.CodeInvalidTransition, "content already generated; start new first")
	}
	committed := result
	draft := result
	s.Committed = &committed
	s.Draft = &draft
	s.Editing = false
	return nil
}

// BeginEdit enters editing mode, seeding the draft from the committed text.
func (s *Slot) BeginEdit() error {
	if s.Committed == nil {
		return errors.New(errors.CodeInvalidTransition, "nothing to edit")
	}
	if s.Editing {
		return errors.New(errors.CodeInvalidTransition, "already editing")
	}
	draft := *s.Committed
	s.Draft = &draft
	s.Editing = true
	return nil
}

// UpdateDraft replaces the draft text. Only legal while editing.
func (s *Slot) UpdateDraft(text string) error {
	if !s.Editing || s.Draft == nil {
		return errors.New(errors.CodeInvalidTransition, "not in editing mode")
	}
	s.Draft.Text = text
	return nil
}

// SaveEdit commits the draft and leaves editing mode.
func (s *Slot) SaveEdit() error {
	if !s.Editing || s.Draft == nil {
		return errors.New(errors.CodeInvalidTransition, "not in editing mode")
	}
	committed := *s.Draft
	s.Committed = &committed
	s.Editing = false
	return nil
}

// CancelEdit discards draft changes and leaves editing mode. The committed
// text is untouched.
func (s *Slot) CancelEdit() error {
	if !s.Editing {
		return errors.New(errors.CodeInvalidTransition, "not in editing mode")
	}
	draft := *s.Committed
	s.Draft = &draft
	s.Editing = false
	return nil
}

// Reset clears the slot back to the empty state ("start new").
func (s *Slot) Reset() {
	s.Committed = nil
	s.Draft = nil
	s.Editing = false
}

// CanDownload reports whether the slot has committed content to export.
func (s *Slot) CanDownload() bool {
	return s.Committed != nil
}

// UploadedContext is the text extracted from the most recent context upload.
// It is shared read-only by every task's prompt until replaced.
type UploadedContext struct {
	FileName    string    `json:"file_name"`
	Text        string    `json:"text"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// Session holds all per-session state: one slot per task kind, the uploaded
// context and the chat transcript. Nothing here survives the session.
type Session struct {
	ID        string                 `json:"id"`
	Slots     map[TaskKind]*Slot     `json:"slots"`
	Context   *UploadedContext       `json:"context,omitempty"`
	Chat      []ChatMessage          `json:"chat,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	slots := make(map[TaskKind]*Slot, len(AllTaskKinds))
	for _, task := range AllTaskKinds {
		slots[task] = &Slot{}
	}
	return &Session{
		ID:        id,
		Slots:     slots,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Slot returns the slot for a task, creating it if the session was decoded
// from a store that omitted empty slots.
func (s *Session) Slot(task TaskKind) *Slot {
	if s.Slots == nil {
		s.Slots = make(map[TaskKind]*Slot, len(AllTaskKinds))
	}
	slot, ok := s.Slots[task]
	if !ok {
		slot = &Slot{}
		s.Slots[task] = slot
	}
	return slot
}

// ContextText returns the uploaded context text, or "" when none exists.
func (s *Session) ContextText() string {
	if s.Context == nil {
		return ""
	}
	return s.Context.Text
}

// SetContext replaces the uploaded context. Callers must only do this after
// a successful extraction; failures leave the previous context in place.
func (s *Session) SetContext(ctx UploadedContext) {
	s.Context = &ctx
}

// ClearContext drops the uploaded context.
func (s *Session) ClearContext() {
	s.Context = nil
}

// Touch bumps the session's update timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
