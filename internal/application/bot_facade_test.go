//go:build !integration

package application_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"telegram-academy-intake/internal/application"
	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/adapter"
	"telegram-academy-intake/internal/infra/i18n"
	"telegram-academy-intake/internal/infra/memory"
	"telegram-academy-intake/internal/usecase"
)

// fakeSink records appended registrations, split by worksheet.
type fakeSink struct {
	mu     sync.Mutex
	male   []*model.Record
	female []*model.Record
	err    error
}

var _ adapter.RegistrationSink = (*fakeSink)(nil)

func (f *fakeSink) Append(ctx context.Context, rec *model.Record) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.Gender == model.GenderMale {
		f.male = append(f.male, rec)
	} else {
		f.female = append(f.female, rec)
	}
	return nil
}

// newTestFacade wires a real facade over the in-memory session store so the
// tests exercise the full routing-plus-conversation path.
func newTestFacade(t *testing.T, sink adapter.RegistrationSink) (*application.BotFacade, *i18n.Translator) {
	t.Helper()
	logger := zerolog.Nop()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "ar")
	if err != nil {
		t.Fatalf("load translator: %v", err)
	}
	uc := usecase.NewIntakeUseCase(memory.NewSessionRepo(), sink, nil, &logger)
	return application.NewBotFacade(uc, tr, &logger), tr
}

func text(tgID int64, s string) model.Inbound {
	return model.Inbound{TelegramID: tgID, Username: "test_user", FirstName: "Ahmad", Text: s}
}

func command(tgID int64, s string) model.Inbound {
	in := text(tgID, s)
	in.IsCommand = true
	return in
}

func send(t *testing.T, f *application.BotFacade, in model.Inbound) adapter.Reply {
	t.Helper()
	reply, err := f.HandleInbound(context.Background(), in)
	if err != nil {
		t.Fatalf("HandleInbound(%q) failed: %v", in.Text, err)
	}
	return reply
}

func TestBotFacade_Start(t *testing.T) {
	f, tr := newTestFacade(t, &fakeSink{})

	reply := send(t, f, command(1, "/start"))
	if len(reply.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(reply.Messages))
	}
	if reply.Messages[0].Text != tr.T("greeting", "Ahmad") {
		t.Errorf("greeting = %q", reply.Messages[0].Text)
	}
	if !reply.Messages[0].Markdown {
		t.Error("greeting should be markdown")
	}
	kb := reply.Messages[1].KeyboardRows
	if len(kb) != 2 || kb[0][0] != tr.T("btn_about") || kb[1][0] != tr.T("btn_register") {
		t.Errorf("menu keyboard = %v", kb)
	}
}

func TestBotFacade_About(t *testing.T) {
	f, tr := newTestFacade(t, &fakeSink{})

	check := func(t *testing.T, reply adapter.Reply) {
		t.Helper()
		if len(reply.Messages) != 3 {
			t.Fatalf("got %d messages, want 3", len(reply.Messages))
		}
		if reply.Messages[0].Text != tr.T("about") {
			t.Errorf("about text = %q", reply.Messages[0].Text)
		}
		if reply.Messages[1].VideoFileID == "" {
			t.Error("second message should carry the intro video")
		}
		btns := reply.Messages[2].Buttons
		if len(btns) != 1 || len(btns[0]) != 1 || btns[0][0].URL == "" {
			t.Errorf("channel button = %v", btns)
		}
	}

	t.Run("via command", func(t *testing.T) {
		check(t, send(t, f, command(1, "/about")))
	})
	t.Run("via menu button text", func(t *testing.T) {
		check(t, send(t, f, text(1, tr.T("btn_about"))))
	})
}

func TestBotFacade_IdleTextIgnored(t *testing.T) {
	f, _ := newTestFacade(t, &fakeSink{})

	for _, s := range []string{"hello", "سلام", "register"} {
		if reply := send(t, f, text(1, s)); !reply.Empty() {
			t.Errorf("idle %q produced a reply: %v", s, reply.Messages)
		}
	}
}

func TestBotFacade_UnknownCommandIgnored(t *testing.T) {
	f, _ := newTestFacade(t, &fakeSink{})

	if reply := send(t, f, command(1, "/help")); !reply.Empty() {
		t.Errorf("/help produced a reply: %v", reply.Messages)
	}
}

func TestBotFacade_FullRegistration(t *testing.T) {
	sink := &fakeSink{}
	f, tr := newTestFacade(t, sink)
	const user = int64(42)

	// Menu button enters the flow and drops the menu keyboard.
	reply := send(t, f, text(user, tr.T("btn_register")))
	if len(reply.Messages) != 1 || reply.Messages[0].Text != tr.T("ask_name") {
		t.Fatalf("register trigger reply = %v", reply.Messages)
	}
	if !reply.Messages[0].RemoveKeyboard {
		t.Error("ask_name should remove the menu keyboard")
	}

	prompts := []struct {
		answer string
		want   string
	}{
		{"Ahmad Ali", "ask_age"},
		{"20", "ask_goal"},
		{"memorize Quran", "ask_country"},
		{"Egypt", "ask_gender"},
	}
	for _, p := range prompts {
		reply = send(t, f, text(user, p.answer))
		if len(reply.Messages) != 1 || reply.Messages[0].Text != tr.T(p.want) {
			t.Fatalf("after %q reply = %v, want %s", p.answer, reply.Messages, p.want)
		}
	}

	// The gender prompt offers exactly the two accepted labels.
	kb := reply.Messages[0].KeyboardRows
	if len(kb) != 1 || len(kb[0]) != 2 || kb[0][0] != string(model.GenderMale) || kb[0][1] != string(model.GenderFemale) {
		t.Fatalf("gender keyboard = %v", kb)
	}

	reply = send(t, f, text(user, string(model.GenderMale)))
	if len(reply.Messages) != 2 {
		t.Fatalf("completion reply = %v", reply.Messages)
	}
	if reply.Messages[0].Text != tr.T("registered_ok") {
		t.Errorf("first message = %q", reply.Messages[0].Text)
	}
	if len(reply.Messages[1].KeyboardRows) == 0 {
		t.Error("completion should bring the menu keyboard back")
	}

	if len(sink.male) != 1 || len(sink.female) != 0 {
		t.Fatalf("sink = (%d male, %d female), want (1, 0)", len(sink.male), len(sink.female))
	}
}

func TestBotFacade_GenderReprompt(t *testing.T) {
	sink := &fakeSink{}
	f, tr := newTestFacade(t, sink)
	const user = int64(42)

	send(t, f, text(user, tr.T("btn_register")))
	for _, s := range []string{"Ahmad", "20", "hifz", "Egypt"} {
		send(t, f, text(user, s))
	}

	reply := send(t, f, text(user, "male"))
	if len(reply.Messages) != 1 || reply.Messages[0].Text != tr.T("gender_reprompt") {
		t.Fatalf("reprompt reply = %v", reply.Messages)
	}
	if len(reply.Messages[0].KeyboardRows) != 1 {
		t.Error("reprompt should re-offer the gender keyboard")
	}
	if len(sink.male)+len(sink.female) != 0 {
		t.Error("rejected label reached the sink")
	}
}

func TestBotFacade_TriggersAreAnswersMidFlow(t *testing.T) {
	sink := &fakeSink{}
	f, tr := newTestFacade(t, sink)
	const user = int64(42)

	send(t, f, text(user, tr.T("btn_register")))

	// Mid-flow the menu button text is just an answer: it becomes the name
	// instead of restarting the flow.
	reply := send(t, f, text(user, tr.T("btn_register")))
	if len(reply.Messages) != 1 || reply.Messages[0].Text != tr.T("ask_age") {
		t.Fatalf("mid-flow trigger reply = %v, want ask_age", reply.Messages)
	}

	for _, s := range []string{"20", "hifz", "Egypt", string(model.GenderMale)} {
		send(t, f, text(user, s))
	}
	if len(sink.male) != 1 || sink.male[0].Name != tr.T("btn_register") {
		t.Fatalf("recorded name = %v, want the literal button text", sink.male)
	}
}

func TestBotFacade_Cancel(t *testing.T) {
	f, tr := newTestFacade(t, &fakeSink{})
	const user = int64(42)

	t.Run("mid-flow", func(t *testing.T) {
		send(t, f, text(user, tr.T("btn_register")))
		send(t, f, text(user, "Ahmad"))

		reply := send(t, f, command(user, "/cancel"))
		if len(reply.Messages) != 1 || reply.Messages[0].Text != tr.T("cancelled") {
			t.Fatalf("cancel reply = %v", reply.Messages)
		}
	})

	t.Run("when idle", func(t *testing.T) {
		if reply := send(t, f, command(user, "/cancel")); !reply.Empty() {
			t.Errorf("idle cancel produced a reply: %v", reply.Messages)
		}
	})
}

func TestBotFacade_CommandsRoutedMidFlow(t *testing.T) {
	f, tr := newTestFacade(t, &fakeSink{})
	const user = int64(42)

	send(t, f, text(user, tr.T("btn_register")))

	// /start stays a command mid-flow; it never becomes the name answer.
	reply := send(t, f, command(user, "/start"))
	if len(reply.Messages) != 2 || reply.Messages[0].Text != tr.T("greeting", "Ahmad") {
		t.Fatalf("mid-flow /start reply = %v", reply.Messages)
	}
}
