// Package mailer renders mail templates and hands finished messages to a delivery provider.
package mailer

import (
	"context"
	"net/mail"
	"strings"

	"academykit_backend/internals/configs"
)

type Message struct {
	To      []mail.Address `json:"to"`
	Subject string         `json:"subject"`
	HTML    string         `json:"html"`
	Text    string         `json:"text"`
}

func (m Message) HasRecipients() bool { return len(m.To) > 0 }

func (m Message) HasContent() bool {
	return strings.TrimSpace(m.HTML) != "" || strings.TrimSpace(m.Text) != ""
}

// Sender delivers already-rendered messages.
type Sender interface {
	SendMessages(ctx context.Context, messages ...Message) error
}

// NewSender picks the provider from config; anything but "sendgrid" logs to the console.
func NewSender(cfg configs.MailConfig, appName string) Sender {
	if strings.EqualFold(cfg.Provider, "sendgrid") && cfg.SendgridAPIKey != "" {
		return NewSendgrid(cfg.SendgridAPIKey, appName, cfg.FromName, cfg.FromEmail)
	}
	return NewConsole(mail.Address{Name: cfg.FromName, Address: cfg.FromEmail}, appName)
}

// To builds a single-recipient list.
func To(name, email string) []mail.Address {
	return []mail.Address{{Name: strings.TrimSpace(name), Address: strings.TrimSpace(email)}}
}
