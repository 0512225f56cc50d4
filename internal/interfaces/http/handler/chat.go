package handler

import (
	"github.com/gin-gonic/gin"

	"professor-ai-api/internal/application/chat"
	"professor-ai-api/internal/interfaces/http/dto"
	"professor-ai-api/pkg/errors"
)

// ChatHandler serves the streaming chat endpoints.
type ChatHandler struct {
	svc *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// History returns the session's transcript.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.svc.History(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "failed to load chat history")
		return
	}
	dto.Success(c, dto.ToChatHistoryResponse(messages))
}

// Send runs one chat turn and streams the assistant reply over SSE. Each
// delta is a "content" event; the terminal event is "done" with the full
// reply, or "error" when the stream fails mid-way.
func (h *ChatHandler) Send(c *gin.Context) {
	var body dto.ChatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher := c.Writer
	index := 0

	full, err := h.svc.Send(c.Request.Context(), c.Param("sid"), body.Message, func(delta string) error {
		if err := c.Request.Context().Err(); err != nil {
			return err
		}
		c.SSEvent("content", gin.H{
			"chunk": delta,
			"index": index,
		})
		index++
		flusher.Flush()
		return nil
	})
	if err != nil {
		appErr := errors.AsAppError(err)
		c.SSEvent("error", gin.H{
			"error_code": string(appErr.Code),
			"message":    appErr.Message,
		})
		flusher.Flush()
		return
	}

	c.SSEvent("done", gin.H{
		"content": full,
	})
	flusher.Flush()
}
