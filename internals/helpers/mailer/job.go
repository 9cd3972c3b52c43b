package mailer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"academykit_backend/internals/helpers/jobs"
)

const TopicSend = "mail.send"

// Job is the payload of a mail.send job. Data is passed to the template as .Data.
type Job struct {
	MailType string         `json:"mail_type"`
	To       []Recipient    `json:"to"`
	Data     map[string]any `json:"data"`
}

// Enqueue schedules a templated mail. Failures are logged; callers never block on mail.
func Enqueue(ctx context.Context, q jobs.Enqueuer, mailType string, to Recipient, data map[string]any) {
	if q == nil || to.Email == "" {
		return
	}
	if err := q.Enqueue(ctx, TopicSend, Job{MailType: mailType, To: []Recipient{to}, Data: data}); err != nil {
		log.Error().Err(err).Str("mail_type", mailType).Msg("[MAIL] enqueue failed")
	}
}

// Handler renders and delivers mail.send jobs.
func Handler(r *Renderer, s Sender) jobs.Handler {
	return func(ctx context.Context, payload []byte) error {
		job, err := jobs.Decode[Job](payload)
		if err != nil {
			// a malformed payload will never succeed
			log.Error().Err(err).Msg("[MAIL] drop malformed job")
			return nil
		}
		msg, err := r.Render(ctx, job.MailType, job.To, job.Data)
		if err != nil {
			return errors.Wrapf(err, "render %s", job.MailType)
		}
		return s.SendMessages(ctx, msg)
	}
}
