package core

import "net/mail"

type EmailMessage struct {
	To          []mail.Address
	Subject     string
	TextContent string
}

func (m EmailMessage) HasRecipients() bool { return len(m.To) > 0 }

func (m EmailMessage) HasContent() bool { return m.TextContent != "" }

// EmailService sends messages asynchronously; implementations swallow and log
// delivery failures rather than surfacing them to callers.
type EmailService interface {
	SendMessages(messages ...*EmailMessage)
}
