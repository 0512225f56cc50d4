package repository

import (
	"context"

	"professor-ai-api/internal/domain/entity"
)

// SessionStore persists sessions for the lifetime of their TTL.
// Implementations: in-process memory store and Redis.
type SessionStore interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id string) error
}
