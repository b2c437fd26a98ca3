package model

import "strings"

// Inbound is one text event from the chat platform, already tagged by the
// dispatcher with the sender identity and whether it is a command.
type Inbound struct {
	TelegramID int64
	Username   string
	FirstName  string
	Text       string
	IsCommand  bool
}

// Command returns the bare command name ("start" for "/start@SomeBot"),
// or "" when the message is free text.
func (m Inbound) Command() string {
	if !m.IsCommand {
		return ""
	}
	fields := strings.Fields(m.Text)
	if len(fields) == 0 {
		return ""
	}
	cmd := fields[0]
	cmd = strings.TrimPrefix(cmd, "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd
}
