package mailer

import (
	"context"
	"net/mail"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// ConsoleSender logs messages instead of delivering them. Sent keeps a copy for inspection.
type ConsoleSender struct {
	from       mail.Address
	subjPrefix string

	mu   sync.Mutex
	Sent []Message
}

func NewConsole(from mail.Address, appName string) *ConsoleSender {
	return &ConsoleSender{from: from, subjPrefix: "[" + appName + "] "}
}

func (s *ConsoleSender) SendMessages(_ context.Context, messages ...Message) error {
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		to := make([]string, 0, len(msg.To))
		for _, a := range msg.To {
			to = append(to, a.String())
		}
		log.Info().
			Str("component", "mailer").
			Str("from", s.from.String()).
			Str("to", strings.Join(to, ", ")).
			Str("subject", s.subjPrefix+msg.Subject).
			Msg(msg.Text)

		s.mu.Lock()
		s.Sent = append(s.Sent, msg)
		s.mu.Unlock()
	}
	return nil
}

func (s *ConsoleSender) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.Sent...)
}
