package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-academy-intake/internal/application"
	"telegram-academy-intake/internal/config"
	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
	"telegram-academy-intake/internal/infra/logging"
	"telegram-academy-intake/internal/infra/metrics"
	red "telegram-academy-intake/internal/infra/redis"
	"telegram-academy-intake/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter polls Telegram for updates and hands them to the
// facade. Updates are dispatched through a pool sharded by user id, so one
// user's messages are handled strictly in arrival order while a slow
// spreadsheet write for one user never stalls another's conversation.
// Replies go out through the out sender; in dev mode that is the noop
// adapter, so a dev run reads real updates but only logs what it would send.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      application.Facade
	rateLimiter *red.RateLimiter
	pool        *worker.ShardedPool
	out         adapter.TelegramBotAdapter
	dev         bool
	log         *zerolog.Logger

	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade application.Facade, rateLimiter *red.RateLimiter, dev bool, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	r := &RealTelegramBotAdapter{
		bot:         bot,
		cfg:         cfg,
		facade:      facade,
		rateLimiter: rateLimiter,
		pool:        worker.NewShardedPool(cfg.Workers, logger),
		dev:         dev,
		log:         logger,
	}
	if dev {
		r.out = NewNoopBotAdapter(logger)
	} else {
		r.out = r
	}
	return r, nil
}

// StartPolling runs until ctx is canceled.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	r.pool.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			r.pool.Stop()
			return ctx.Err()
		case up := <-updates:
			r.dispatch(ctx, up)
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// dispatch routes one update onto the shard owning its sender.
func (r *RealTelegramBotAdapter) dispatch(ctx context.Context, up tgbotapi.Update) {
	if up.Message == nil || up.Message.From == nil {
		metrics.IncUpdate("other")
		return
	}
	tgID := up.Message.From.ID
	err := r.pool.Submit(ctx, tgID, func(ctx context.Context) error {
		return r.handleUpdate(ctx, up)
	})
	if err != nil {
		r.log.Warn().Err(err).Int64("tg_id", tgID).Msg("dropping update")
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	msg := up.Message
	tgUser := msg.From

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, tgUser.ID)
	log := logging.With(ctx, r.log)

	in := model.Inbound{
		TelegramID: tgUser.ID,
		Username:   tgUser.UserName,
		FirstName:  tgUser.FirstName,
		Text:       msg.Text,
		IsCommand:  msg.IsCommand(),
	}
	if in.IsCommand {
		metrics.IncUpdate("command")
	} else {
		metrics.IncUpdate("text")
	}
	log.Debug().Str("text", logging.Redact(in.Text, r.dev)).Msg("update received")

	// Photos, stickers etc. have no text and never feed the conversation.
	if in.Text == "" {
		return nil
	}

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserKey(tgUser.ID, "msg"), 20, time.Minute)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return nil
		}
	}

	reply, err := r.facade.HandleInbound(ctx, in)
	if err != nil {
		// Conversation errors stop here: log, count, still send whatever
		// notice the facade rendered.
		metrics.IncHandlerError()
		log.Error().Err(err).Msg("handle inbound failed")
	}
	if reply.Empty() {
		return nil
	}
	return r.out.SendReply(ctx, tgUser.ID, reply)
}

// SendReply sends the messages of a reply in order, stopping on the first
// transport error.
func (r *RealTelegramBotAdapter) SendReply(ctx context.Context, tgID int64, reply adapter.Reply) error {
	for _, m := range reply.Messages {
		if err := r.Send(ctx, tgID, m); err != nil {
			return err
		}
	}
	return nil
}

// Send maps one rendered message onto the Telegram API.
func (r *RealTelegramBotAdapter) Send(ctx context.Context, tgID int64, m adapter.Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.VideoFileID != "" {
		video := tgbotapi.NewVideo(tgID, tgbotapi.FileID(m.VideoFileID))
		video.Caption = m.Text
		if m.Markdown {
			video.ParseMode = tgbotapi.ModeMarkdown
		}
		_, err := r.bot.Send(video)
		return err
	}

	msg := tgbotapi.NewMessage(tgID, m.Text)
	if m.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	switch {
	case len(m.Buttons) > 0:
		msg.ReplyMarkup = inlineMarkup(m.Buttons)
	case len(m.KeyboardRows) > 0:
		msg.ReplyMarkup = replyKeyboard(m.KeyboardRows)
	case m.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	_, err := r.bot.Send(msg)
	return err
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	kbRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			r = append(r, tgbotapi.NewKeyboardButton(label))
		}
		kbRows = append(kbRows, r)
	}
	kb := tgbotapi.NewReplyKeyboard(kbRows...)
	kb.ResizeKeyboard = true
	return kb
}

func inlineMarkup(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			switch {
			case btn.URL != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			default:
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		kbRows = append(kbRows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
