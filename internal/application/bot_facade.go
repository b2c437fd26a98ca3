package application

import (
	"context"
	"errors"

	"telegram-academy-intake/internal/domain"
	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
	"telegram-academy-intake/internal/infra/i18n"
	"telegram-academy-intake/internal/usecase"

	"github.com/rs/zerolog"
)

// Static academy content referenced by platform-opaque identifiers.
const (
	introVideoFileID = "BAACAgQAAxkBAANuaGP96sXyixrepVEce63yIUgLgFUAAhYXAAJB9yFTByDjFUfgZMI2BA"
	channelURL       = "https://t.me/+aE8i5fu47nQxOTZk"
)

// BotFacade routes inbound chat events: commands and idle exact-text
// triggers go to their handlers regardless of conversation content, and
// everything else feeds the active intake conversation. It renders the
// outcome into ready-to-send messages so the Telegram adapter stays dumb.
type BotFacade struct {
	Intake usecase.IntakeUseCase

	tr  *i18n.Translator
	log *zerolog.Logger
}

func NewBotFacade(intake usecase.IntakeUseCase, tr *i18n.Translator, logger *zerolog.Logger) *BotFacade {
	return &BotFacade{Intake: intake, tr: tr, log: logger}
}

// HandleInbound processes one event for one user. The returned reply may be
// non-empty even when err is set (a generic notice the user should still
// see); an empty reply means the event is ignored.
func (b *BotFacade) HandleInbound(ctx context.Context, in model.Inbound) (adapter.Reply, error) {
	if in.IsCommand {
		return b.handleCommand(ctx, in)
	}

	step, err := b.Intake.Step(ctx, in.TelegramID)
	if err != nil {
		return b.genericError(), err
	}

	if step == model.StepIdle {
		switch in.Text {
		case b.tr.T("btn_register"):
			ev, err := b.Intake.Begin(ctx, in.TelegramID)
			if err != nil {
				return b.genericError(), err
			}
			return b.renderEvent(ev), nil
		case b.tr.T("btn_about"):
			return b.aboutReply(), nil
		default:
			b.log.Debug().Int64("tg_id", in.TelegramID).Msg("idle text matched no trigger")
			return adapter.Reply{}, nil
		}
	}

	ev, err := b.Intake.Advance(ctx, in.TelegramID, in.Username, in.Text)
	if errors.Is(err, domain.ErrNotRegistering) {
		// Session vanished between Step and Advance; treat as idle no-op.
		return adapter.Reply{}, nil
	}
	if err != nil {
		return b.genericError(), err
	}
	return b.renderEvent(ev), nil
}

func (b *BotFacade) handleCommand(ctx context.Context, in model.Inbound) (adapter.Reply, error) {
	switch in.Command() {
	case "start":
		return b.greetingReply(in.FirstName), nil
	case "about":
		return b.aboutReply(), nil
	case "cancel":
		ev, err := b.Intake.Cancel(ctx, in.TelegramID)
		if err != nil {
			return b.genericError(), err
		}
		return b.renderEvent(ev), nil
	default:
		b.log.Debug().Int64("tg_id", in.TelegramID).Str("command", in.Command()).Msg("unknown command ignored")
		return adapter.Reply{}, nil
	}
}

// renderEvent maps a conversation event onto its prompt(s).
func (b *BotFacade) renderEvent(ev usecase.Event) adapter.Reply {
	switch ev {
	case usecase.EventAskName:
		// Entering the flow drops the menu keyboard.
		return reply(adapter.Message{Text: b.tr.T("ask_name"), RemoveKeyboard: true})
	case usecase.EventAskAge:
		return reply(adapter.Message{Text: b.tr.T("ask_age")})
	case usecase.EventAskGoal:
		return reply(adapter.Message{Text: b.tr.T("ask_goal")})
	case usecase.EventAskCountry:
		return reply(adapter.Message{Text: b.tr.T("ask_country")})
	case usecase.EventAskGender:
		return reply(adapter.Message{Text: b.tr.T("ask_gender"), KeyboardRows: genderKeyboard()})
	case usecase.EventGenderReprompt:
		return reply(adapter.Message{Text: b.tr.T("gender_reprompt"), KeyboardRows: genderKeyboard()})
	case usecase.EventCompleted:
		return reply(
			adapter.Message{Text: b.tr.T("registered_ok"), RemoveKeyboard: true},
			adapter.Message{Text: b.tr.T("menu_prompt_again"), KeyboardRows: b.menuKeyboard()},
		)
	case usecase.EventWriteFailed:
		return reply(
			adapter.Message{Text: b.tr.T("registered_fail"), RemoveKeyboard: true},
			adapter.Message{Text: b.tr.T("menu_prompt_again"), KeyboardRows: b.menuKeyboard()},
		)
	case usecase.EventCancelled:
		return reply(adapter.Message{Text: b.tr.T("cancelled"), RemoveKeyboard: true})
	default:
		return adapter.Reply{}
	}
}

func (b *BotFacade) greetingReply(firstName string) adapter.Reply {
	return reply(
		adapter.Message{Text: b.tr.T("greeting", firstName), Markdown: true},
		adapter.Message{Text: b.tr.T("menu_prompt"), KeyboardRows: b.menuKeyboard()},
	)
}

func (b *BotFacade) aboutReply() adapter.Reply {
	return reply(
		adapter.Message{Text: b.tr.T("about"), Markdown: true},
		adapter.Message{Text: b.tr.T("about_video_caption"), Markdown: true, VideoFileID: introVideoFileID},
		adapter.Message{
			Text:    b.tr.T("about_channel_prompt"),
			Buttons: [][]adapter.InlineButton{{{Text: b.tr.T("btn_channel"), URL: channelURL}}},
		},
	)
}

func (b *BotFacade) genericError() adapter.Reply {
	return reply(adapter.Message{Text: b.tr.T("error_generic")})
}

func (b *BotFacade) menuKeyboard() [][]string {
	return [][]string{{b.tr.T("btn_about")}, {b.tr.T("btn_register")}}
}

// genderKeyboard offers exactly the two accepted labels, one row.
func genderKeyboard() [][]string {
	return [][]string{{string(model.GenderMale), string(model.GenderFemale)}}
}

func reply(msgs ...adapter.Message) adapter.Reply {
	return adapter.Reply{Messages: msgs}
}
