package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions in Redis as JSON values with a sliding TTL.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *SessionStore) Create(ctx context.Context, session *entity.Session) error {
	return s.Save(ctx, session)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id))
	if err != nil {
		if IsNil(err) {
			return nil, errors.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, errors.CodeSessionStoreError, "failed to read session")
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStoreError, "failed to decode session")
	}

	// Refresh the TTL on read so active sessions outlive it.
	if err := s.client.Expire(ctx, sessionKey(id), s.ttl); err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStoreError, "failed to refresh session ttl")
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, errors.CodeSessionStoreError, "failed to encode session")
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, s.ttl); err != nil {
		return errors.Wrap(err, errors.CodeSessionStoreError, "failed to write session")
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)); err != nil {
		return errors.Wrap(err, errors.CodeSessionStoreError, "failed to delete session")
	}
	return nil
}
