package dto

import (
	"time"

	"professor-ai-api/internal/domain/entity"
)

// SessionResponse is the outward view of a session.
type SessionResponse struct {
	ID        string                   `json:"id"`
	Slots     map[string]*SlotResponse `json:"slots"`
	Context   *ContextResponse         `json:"context,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// SlotResponse is the outward view of one task slot.
type SlotResponse struct {
	State     string     `json:"state"`
	Committed string     `json:"committed,omitempty"`
	Draft     string     `json:"draft,omitempty"`
	UpdatedAt *time.Time `json:"generated_at,omitempty"`
}

// ContextResponse describes the uploaded context without echoing its full
// text back on every session read.
type ContextResponse struct {
	FileName    string    `json:"file_name"`
	TextBytes   int       `json:"text_bytes"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// ContextUploadResponse confirms an upload with a preview of the text.
type ContextUploadResponse struct {
	FileName    string    `json:"file_name"`
	TextBytes   int       `json:"text_bytes"`
	Preview     string    `json:"preview,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// DraftRequest carries edited draft text.
type DraftRequest struct {
	Text string `json:"text" binding:"required"`
}

// ChatRequest carries one chat turn's user message.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatMessageResponse is one transcript entry.
type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSlotResponse converts a slot entity.
func ToSlotResponse(slot *entity.Slot) *SlotResponse {
	if slot == nil {
		return &SlotResponse{State: string(entity.SlotEmpty)}
	}
	resp := &SlotResponse{State: string(slot.State())}
	if slot.Committed != nil {
		resp.Committed = slot.Committed.Text
		t := slot.Committed.GeneratedAt
		resp.UpdatedAt = &t
	}
	if slot.Editing && slot.Draft != nil {
		resp.Draft = slot.Draft.Text
	}
	return resp
}

// ToSessionResponse converts a session entity.
func ToSessionResponse(session *entity.Session) *SessionResponse {
	resp := &SessionResponse{
		ID:        session.ID,
		Slots:     make(map[string]*SlotResponse, len(entity.AllTaskKinds)),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	for _, task := range entity.AllTaskKinds {
		resp.Slots[string(task)] = ToSlotResponse(session.Slot(task))
	}
	if session.Context != nil {
		resp.Context = &ContextResponse{
			FileName:    session.Context.FileName,
			TextBytes:   len(session.Context.Text),
			ExtractedAt: session.Context.ExtractedAt,
		}
	}
	return resp
}

// ToChatHistoryResponse converts a transcript.
func ToChatHistoryResponse(messages []entity.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, ChatMessageResponse{
			Role:      string(msg.Role),
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out
}
