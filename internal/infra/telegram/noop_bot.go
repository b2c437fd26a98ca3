package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-academy-intake/internal/domain/ports/adapter"
)

// NoopBotAdapter implements adapter.TelegramBotAdapter for dev runs: the
// dispatcher uses it as the outbound sender, so replies are logged instead
// of reaching Telegram.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger}
}

func (b *NoopBotAdapter) Send(ctx context.Context, tgID int64, m adapter.Message) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", m.Text).Bool("video", m.VideoFileID != "").Msg("noop send")
	return nil
}

func (b *NoopBotAdapter) SendReply(ctx context.Context, tgID int64, reply adapter.Reply) error {
	for _, m := range reply.Messages {
		if err := b.Send(ctx, tgID, m); err != nil {
			return err
		}
	}
	return nil
}

// Ensure interface compliance
var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)
