package handler

import (
	"github.com/gin-gonic/gin"

	"professor-ai-api/internal/application/teaching"
	"professor-ai-api/internal/interfaces/http/dto"
)

// SessionHandler serves the session lifecycle and context uploads.
type SessionHandler struct {
	svc *teaching.Service
}

func NewSessionHandler(svc *teaching.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// CreateSession allocates a new session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to create session")
		return
	}
	dto.Created(c, dto.ToSessionResponse(session))
}

// GetSession returns the session with every slot's state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}
	dto.Success(c, dto.ToSessionResponse(session))
}

// DeleteSession discards the session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err, "failed to delete session")
		return
	}
	dto.NoContent(c)
}

const contextPreviewLimit = 500

// UploadContext accepts one multipart file and replaces the session's
// prompt context with its extracted text.
func (h *SessionHandler) UploadContext(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.BadRequest(c, "multipart field \"file\" is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		dto.BadRequest(c, "failed to open upload")
		return
	}
	defer file.Close()

	uploaded, err := h.svc.UploadContext(c.Request.Context(), c.Param("sid"), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err, "failed to process upload")
		return
	}

	preview := uploaded.Text
	if runes := []rune(preview); len(runes) > contextPreviewLimit {
		preview = string(runes[:contextPreviewLimit])
	}
	dto.Success(c, dto.ContextUploadResponse{
		FileName:    uploaded.FileName,
		TextBytes:   len(uploaded.Text),
		Preview:     preview,
		ExtractedAt: uploaded.ExtractedAt,
	})
}

// ClearContext drops the session's uploaded context.
func (h *SessionHandler) ClearContext(c *gin.Context) {
	if err := h.svc.ClearContext(c.Request.Context(), c.Param("sid")); err != nil {
		respondError(c, err, "failed to clear context")
		return
	}
	dto.NoContent(c)
}
