package teaching

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"professor-ai-api/internal/application/exporting"
	"professor-ai-api/internal/application/extraction"
	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/internal/domain/repository"
	wfmodel "professor-ai-api/internal/workflow/model"
	"professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/logger"
	"professor-ai-api/pkg/metrics"
)

// GenerationRunner is the service's view of the LLM workflow.
type GenerationRunner interface {
	Run(ctx context.Context, in *wfmodel.GenerationInput) (text, provider, model string, err error)
}

// Service drives every teaching flow: session lifecycle, context uploads,
// the per-task generation state machine and document download.
type Service struct {
	store     repository.SessionStore
	runner    GenerationRunner
	extractor *extraction.Extractor
	exporter  *exporting.Exporter
}

func NewService(
	store repository.SessionStore,
	runner GenerationRunner,
	extractor *extraction.Extractor,
	exporter *exporting.Exporter,
) *Service {
	return &Service{
		store:     store,
		runner:    runner,
		extractor: extractor,
		exporter:  exporter,
	}
}

// CreateSession allocates a fresh empty session.
func (s *Service) CreateSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString())
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}
	logger.Info(ctx, "session created", "session_id", session.ID)
	return session, nil
}

// GetSession loads a session by id.
func (s *Service) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	return s.store.Get(ctx, id)
}

// DeleteSession discards a session and everything in it.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "session deleted", "session_id", id)
	return nil
}

// UploadContext extracts text from the uploaded file and stores it as the
// session's context. An extraction failure leaves any prior context intact.
func (s *Service) UploadContext(ctx context.Context, sessionID, fileName string, r io.Reader) (*entity.UploadedContext, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.Extract(ctx, fileName, r)
	if err != nil {
		return nil, err
	}

	uploaded := entity.UploadedContext{
		FileName:    fileName,
		Text:        text,
		ExtractedAt: time.Now().UTC(),
	}
	session.SetContext(uploaded)
	session.Touch()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Info(ctx, "context uploaded",
		"session_id", sessionID, "file", fileName, "text_bytes", len(text))
	return &uploaded, nil
}

// ClearContext removes the session's uploaded context.
func (s *Service) ClearContext(ctx context.Context, sessionID string) error {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Context == nil {
		return errors.ErrContextNotFound
	}
	session.ClearContext()
	session.Touch()
	return s.store.Save(ctx, session)
}

// Generate runs the submit-form action: validate, build the prompt, call
// the model once and commit the result. Any failure before the commit
// leaves the slot empty so the user can resubmit.
func (s *Service) Generate(ctx context.Context, sessionID string, req GenerationRequest) (*entity.GenerationResult, error) {
	task := req.Task()
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)
	ctx = logger.WithContext(ctx, logger.TaskKey, string(task))

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	slot := session.Slot(task)
	if slot.State() != entity.SlotEmpty {
		return nil, errors.New(errors.CodeInvalidTransition,
			"content already generated; start new first")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	text, provider, model, err := s.runner.Run(ctx, &wfmodel.GenerationInput{
		Task: task,
		Vars: req.PromptVars(session.ContextText()),
	})
	metrics.GenerationDuration.WithLabelValues(string(task)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(task), "error").Inc()
		logger.Error(ctx, "generation failed", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "LLM call failed")
	}

	result := entity.GenerationResult{
		Text:        text,
		Provider:    provider,
		Model:       model,
		GeneratedAt: time.Now().UTC(),
	}
	if err := slot.ApplyGeneration(result); err != nil {
		return nil, err
	}
	session.Touch()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.GenerationTotal.WithLabelValues(string(task), "success").Inc()
	logger.Info(ctx, "generation committed", "text_bytes", len(text))
	return slot.Committed, nil
}

// Slot returns the current state of one task slot.
func (s *Service) Slot(ctx context.Context, sessionID string, task entity.TaskKind) (*entity.Slot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Slot(task), nil
}

// BeginEdit enters editing mode for a task slot.
func (s *Service) BeginEdit(ctx context.Context, sessionID string, task entity.TaskKind) (*entity.Slot, error) {
	return s.mutateSlot(ctx, sessionID, task, func(slot *entity.Slot) error {
		return slot.BeginEdit()
	})
}

// UpdateDraft replaces the draft text of a slot in editing mode.
func (s *Service) UpdateDraft(ctx context.Context, sessionID string, task entity.TaskKind, text string) (*entity.Slot, error) {
	return s.mutateSlot(ctx, sessionID, task, func(slot *entity.Slot) error {
		return slot.UpdateDraft(text)
	})
}

// SaveEdit commits the draft and returns to viewing.
func (s *Service) SaveEdit(ctx context.Context, sessionID string, task entity.TaskKind) (*entity.Slot, error) {
	return s.mutateSlot(ctx, sessionID, task, func(slot *entity.Slot) error {
		return slot.SaveEdit()
	})
}

// CancelEdit discards the draft and returns to viewing.
func (s *Service) CancelEdit(ctx context.Context, sessionID string, task entity.TaskKind) (*entity.Slot, error) {
	return s.mutateSlot(ctx, sessionID, task, func(slot *entity.Slot) error {
		return slot.CancelEdit()
	})
}

// Reset clears a slot back to empty ("start new").
func (s *Service) Reset(ctx context.Context, sessionID string, task entity.TaskKind) (*entity.Slot, error) {
	return s.mutateSlot(ctx, sessionID, task, func(slot *entity.Slot) error {
		slot.Reset()
		return nil
	})
}

func (s *Service) mutateSlot(ctx context.Context, sessionID string, task entity.TaskKind, fn func(*entity.Slot) error) (*entity.Slot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	slot := session.Slot(task)
	if err := fn(slot); err != nil {
		return nil, err
	}
	session.Touch()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return slot, nil
}

// Download exports the committed text of a slot as a DOCX. The draft is
// never exported, even while editing.
func (s *Service) Download(ctx context.Context, sessionID string, task entity.TaskKind) (data []byte, fileName string, err error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	slot := session.Slot(task)
	if !slot.CanDownload() {
		return nil, "", errors.New(errors.CodeInvalidTransition, "nothing to download")
	}
	return s.exporter.Export(ctx, task, slot.Committed.Text)
}
