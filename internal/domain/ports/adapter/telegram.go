// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// Message is one outbound chat message, fully rendered: the adapter only
// maps it onto the platform API.
type Message struct {
	Text     string
	Markdown bool

	// KeyboardRows shows a persistent reply keyboard; RemoveKeyboard hides
	// any previous one. At most one of the two is set.
	KeyboardRows   [][]string
	RemoveKeyboard bool

	// Buttons attaches inline buttons under the message.
	Buttons [][]InlineButton

	// VideoFileID sends a video by platform file id; Text becomes the caption.
	VideoFileID string
}

// Reply is the ordered list of messages answering one inbound event.
// An empty reply means the event is deliberately ignored.
type Reply struct {
	Messages []Message
}

func (r Reply) Empty() bool { return len(r.Messages) == 0 }

// TelegramBotAdapter is the outbound side of the chat platform: the
// dispatcher hands it rendered replies and stays ignorant of how they are
// delivered (real API call, or log-only in dev mode).
type TelegramBotAdapter interface {
	Send(ctx context.Context, telegramID int64, msg Message) error
	SendReply(ctx context.Context, telegramID int64, reply Reply) error
}
