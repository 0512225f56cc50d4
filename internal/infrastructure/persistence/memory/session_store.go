// Package memory provides the in-process session store.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/metrics"
)

type sessionEntry struct {
	session   *entity.Session
	expiresAt time.Time
}

// SessionStore keeps sessions in a map with a sliding TTL. This is the
// default store; a restart loses all sessions, which matches the product's
// no-persistence contract.
//
// Save and Get both deep-copy the session, the same isolation the redis
// store gets from decoding a fresh value per read. Callers never share a
// pointer into the map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.reapLoop()
	return s
}

// Close stops the background expiry sweep.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) reapLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.updateGauge()
			s.mu.Unlock()
		}
	}
}

func (s *SessionStore) Create(ctx context.Context, session *entity.Session) error {
	return s.Save(ctx, session)
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		s.updateGauge()
		return nil, errors.ErrSessionNotFound
	}
	entry.expiresAt = time.Now().Add(s.ttl)
	return cloneSession(entry.session)
}

func (s *SessionStore) Save(_ context.Context, session *entity.Session) error {
	if session == nil {
		return errors.New(errors.CodeSessionStoreError, "session is nil")
	}
	stored, err := cloneSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &sessionEntry{
		session:   stored,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.updateGauge()
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	s.updateGauge()
	return nil
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// updateGauge publishes the live session count. Caller holds mu. The gauge
// tracks this store only; redis deployments count sessions server-side,
// this process cannot observe redis key expiry.
func (s *SessionStore) updateGauge() {
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

func cloneSession(session *entity.Session) (*entity.Session, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStoreError, "failed to copy session")
	}
	var out entity.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStoreError, "failed to copy session")
	}
	return &out, nil
}
