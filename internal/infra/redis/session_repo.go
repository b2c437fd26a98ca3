package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"telegram-academy-intake/internal/domain"
	"telegram-academy-intake/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo persists per-user conversation state in Redis. Keys carry no
// TTL: an intake session only ends by completion or /cancel, never by expiry.
type SessionRepo struct {
	client RedisClient
}

func NewSessionRepo(client RedisClient) *SessionRepo {
	return &SessionRepo{client: client}
}

func sessionKey(tgID int64) string {
	return fmt.Sprintf("intake_state:%d", tgID)
}

func (s *SessionRepo) Set(ctx context.Context, tgID int64, sess *repository.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(tgID), data, 0)
}

func (s *SessionRepo) Get(ctx context.Context, tgID int64) (*repository.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(tgID))
	if IsNil(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess repository.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionRepo) Clear(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, sessionKey(tgID))
}
