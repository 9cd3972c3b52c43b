package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"academykit_backend/internals/helpers/breaker"
)

const sendgridEndpoint = "/v3/mail/send"

type SendgridSender struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	cb         breakerRunner
}

type breakerRunner interface {
	Execute(func() (int, error)) (int, error)
}

func NewSendgrid(key, appName, fromName, fromEmail string) *SendgridSender {
	if fromName == "" {
		fromName = appName
	}
	return &SendgridSender{
		key:        key,
		host:       "https://api.sendgrid.com",
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		cb:         breaker.New[int](breaker.DefaultConfig("sendgrid")),
	}
}

// WithHost points the sender at another API host.
func (s *SendgridSender) WithHost(host string) *SendgridSender {
	s.host = host
	return s
}

func (s *SendgridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendgridSender) SendMessages(ctx context.Context, messages ...Message) error {
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.host)
		req.Method = http.MethodPost
		req.Body = sgmail.GetRequestBody(s.prepare(msg))

		_, err := s.cb.Execute(func() (int, error) {
			res, err := sendgrid.API(req)
			if err != nil {
				return 0, err
			}
			if res.StatusCode >= http.StatusBadRequest {
				return res.StatusCode, fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
			}
			return res.StatusCode, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
