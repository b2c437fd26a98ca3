package application

import (
	"context"

	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
)

// Facade is what the Telegram adapter depends on, kept as an interface so
// adapter tests can stub the whole conversation side.
type Facade interface {
	HandleInbound(ctx context.Context, in model.Inbound) (adapter.Reply, error)
}

var _ Facade = (*BotFacade)(nil)
