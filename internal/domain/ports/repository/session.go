package repository

import (
	"context"

	"telegram-academy-intake/internal/domain/model"
)

// Session holds one user's progress through the intake conversation.
// Invariant: a session exists if and only if the step is not idle, so a
// missing session IS the idle state.
type Session struct {
	Step  model.Step  `json:"step"`
	Draft model.Draft `json:"draft"`
}

// SessionRepository is the port for per-user conversation state, keyed by
// Telegram ID. Get returns domain.ErrNotFound when the user is idle.
type SessionRepository interface {
	Set(ctx context.Context, tgID int64, s *Session) error
	Get(ctx context.Context, tgID int64) (*Session, error)
	Clear(ctx context.Context, tgID int64) error
}
