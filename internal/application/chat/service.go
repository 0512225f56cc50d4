// Package chat implements the free-form streaming assistant.
package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/internal/domain/repository"
	llmctx "professor-ai-api/internal/domain/service"
	workflowchain "professor-ai-api/internal/workflow/chain"
	workflowport "professor-ai-api/internal/workflow/port"
	workflowprompt "professor-ai-api/internal/workflow/prompt"
	apperrors "professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/logger"
)

// Service keeps one running transcript per session and streams each
// assistant reply token by token. One turn is one request/response pair;
// the full transcript is sent on every turn.
type Service struct {
	store   repository.SessionStore
	factory workflowport.ChatModelFactory
}

func NewService(store repository.SessionStore, factory workflowport.ChatModelFactory) *Service {
	return &Service{store: store, factory: factory}
}

// History returns the session's transcript.
func (s *Service) History(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Chat, nil
}

// Send appends the user message, streams the assistant reply through
// onDelta and commits both messages to the transcript when the stream
// completes. A failed stream leaves the transcript untouched.
func (s *Service) Send(ctx context.Context, sessionID, userText string, onDelta func(delta string) error) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", apperrors.New(apperrors.CodeValidationFailed, "validation failed").
			WithFields("message")
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages, err := s.buildMessages(session, userText)
	if err != nil {
		return "", err
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "chat", "")
	chatModel, err := s.factory.Get(ctx, "")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMProviderError, "LLM provider unavailable")
	}

	stream, err := chatModel.Stream(ctx, messages)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "LLM call failed")
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "LLM stream failed")
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		full.WriteString(chunk.Content)
		if onDelta != nil {
			if err := onDelta(chunk.Content); err != nil {
				return "", err
			}
		}
	}

	now := time.Now().UTC()
	session.Chat = append(session.Chat,
		entity.ChatMessage{Role: entity.RoleUser, Content: userText, CreatedAt: now},
		entity.ChatMessage{Role: entity.RoleAssistant, Content: full.String(), CreatedAt: time.Now().UTC()},
	)
	session.Touch()
	if err := s.store.Save(ctx, session); err != nil {
		return "", err
	}

	logger.Info(ctx, "chat turn completed",
		"session_id", sessionID, "reply_bytes", full.Len())
	return full.String(), nil
}

// buildMessages assembles system + optional uploaded context + transcript
// + the new user message.
func (s *Service) buildMessages(session *entity.Session, userText string) ([]*schema.Message, error) {
	system, err := workflowchain.SystemPrompt(workflowprompt.PromptChatV1)
	if err != nil {
		return nil, err
	}

	messages := make([]*schema.Message, 0, len(session.Chat)+3)
	messages = append(messages, schema.SystemMessage(system))

	if session.Context != nil {
		messages = append(messages, schema.UserMessage(
			"Recebi o seguinte texto do arquivo '"+session.Context.FileName+"':\n"+session.Context.Text))
	}

	for _, msg := range session.Chat {
		switch msg.Role {
		case entity.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(msg.Content))
		}
	}

	messages = append(messages, schema.UserMessage(userText))
	return messages, nil
}
