package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"professor-ai-api/internal/application/exporting"
	"professor-ai-api/internal/application/teaching"
	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/internal/interfaces/http/dto"
)

// TeachingHandler serves the per-task generation state machine.
type TeachingHandler struct {
	svc *teaching.Service
}

func NewTeachingHandler(svc *teaching.Service) *TeachingHandler {
	return &TeachingHandler{svc: svc}
}

// Generate runs the submit-form action for one task.
func (h *TeachingHandler) Generate(c *gin.Context) {
	task, ok := bindTaskKind(c)
	if !ok {
		return
	}

	req, err := bindGenerationRequest(c, task)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), c.Param("sid"), req)
	if err != nil {
		respondError(c, err, "generation failed")
		return
	}
	dto.Success(c, &dto.SlotResponse{
		State:     string(entity.SlotViewing),
		Committed: result.Text,
		UpdatedAt: &result.GeneratedAt,
	})
}

func bindGenerationRequest(c *gin.Context, task entity.TaskKind) (teaching.GenerationRequest, error) {
	switch task {
	case entity.TaskLessonPlan:
		var req teaching.LessonPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return req, nil
	case entity.TaskContextualSubject:
		var req teaching.ContextualSubjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return req, nil
	case entity.TaskQuestionSet:
		var req teaching.QuestionSetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return req, nil
	case entity.TaskCorrection:
		var req teaching.CorrectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		return req, nil
	default:
		return nil, fmt.Errorf("unknown task kind: %s", task)
	}
}

// GetSlot returns one task slot's state.
func (h *TeachingHandler) GetSlot(c *gin.Context) {
	task, ok := bindTaskKind(c)
	if !ok {
		return
	}
	slot, err := h.svc.Slot(c.Request.Context(), c.Param("sid"), task)
	if err != nil {
		respondError(c, err, "failed to load slot")
		return
	}
	dto.Success(c, dto.ToSlotResponse(slot))
}

// BeginEdit enters editing mode.
func (h *TeachingHandler) BeginEdit(c *gin.Context) {
	h.mutate(c, func(task entity.TaskKind) (*entity.Slot, error) {
		return h.svc.BeginEdit(c.Request.Context(), c.Param("sid"), task)
	})
}

// UpdateDraft replaces the draft text while editing.
func (h *TeachingHandler) UpdateDraft(c *gin.Context) {
	var body dto.DraftRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}
	h.mutate(c, func(task entity.TaskKind) (*entity.Slot, error) {
		return h.svc.UpdateDraft(c.Request.Context(), c.Param("sid"), task, body.Text)
	})
}

// SaveEdit commits the draft.
func (h *TeachingHandler) SaveEdit(c *gin.Context) {
	h.mutate(c, func(task entity.TaskKind) (*entity.Slot, error) {
		return h.svc.SaveEdit(c.Request.Context(), c.Param("sid"), task)
	})
}

// CancelEdit discards the draft.
func (h *TeachingHandler) CancelEdit(c *gin.Context) {
	h.mutate(c, func(task entity.TaskKind) (*entity.Slot, error) {
		return h.svc.CancelEdit(c.Request.Context(), c.Param("sid"), task)
	})
}

// Reset clears the slot ("start new").
func (h *TeachingHandler) Reset(c *gin.Context) {
	h.mutate(c, func(task entity.TaskKind) (*entity.Slot, error) {
		return h.svc.Reset(c.Request.Context(), c.Param("sid"), task)
	})
}

func (h *TeachingHandler) mutate(c *gin.Context, fn func(entity.TaskKind) (*entity.Slot, error)) {
	task, ok := bindTaskKind(c)
	if !ok {
		return
	}
	slot, err := fn(task)
	if err != nil {
		respondError(c, err, "slot update failed")
		return
	}
	dto.Success(c, dto.ToSlotResponse(slot))
}

// Download exports the committed text as a DOCX attachment.
func (h *TeachingHandler) Download(c *gin.Context) {
	task, ok := bindTaskKind(c)
	if !ok {
		return
	}

	data, fileName, err := h.svc.Download(c.Request.Context(), c.Param("sid"), task)
	if err != nil {
		respondError(c, err, "download failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, exporting.ContentTypeDocx, data)
}
