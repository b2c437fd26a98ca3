package memory

import (
	"context"
	"sync"

	"telegram-academy-intake/internal/domain"
	"telegram-academy-intake/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo is an in-memory SessionRepository for dev mode and tests.
// Safe for concurrent use across users; per-user ordering is the
// dispatcher's job, not this store's.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[int64]repository.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[int64]repository.Session)}
}

func (m *SessionRepo) Set(ctx context.Context, tgID int64, sess *repository.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[tgID] = *sess
	return nil
}

func (m *SessionRepo) Get(ctx context.Context, tgID int64) (*repository.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Copy out so callers never share the stored value.
	out := sess
	return &out, nil
}

func (m *SessionRepo) Clear(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tgID)
	return nil
}
