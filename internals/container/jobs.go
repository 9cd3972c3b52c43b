package container

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	assessmentService "academykit_backend/internals/features/assessments/assessments/service"
	questionSetService "academykit_backend/internals/features/assessments/question_sets/service"
	meetingService "academykit_backend/internals/features/meetings/meetings/service"
	authScheduler "academykit_backend/internals/features/users/auth/scheduler"
	"academykit_backend/internals/helpers/mailer"
)

func (a *App) registerJobs() {
	a.Queue.Handle(mailer.TopicSend, mailer.Handler(a.Renderer, a.Mailer))

	importer := &meetingService.RecordingImporter{DB: a.DB, Zoom: a.Zoom, Storage: a.Storage, Prefix: a.Config.Storage.Prefix}
	a.Queue.Handle(meetingService.TopicRecording, importer.Handler())
}

// sweep runs one scheduled task with its own timeout.
func (a *App) sweep(ctx context.Context, name string, fn func(ctx context.Context) (int64, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		n, err := fn(ctx)
		if err != nil {
			log.Error().Err(err).Str("task", name).Msg("[CRON] failed")
			return
		}
		if n > 0 {
			log.Info().Str("task", name).Int64("affected", n).Msg("[CRON] done")
		}
	}
}

func (a *App) startCron(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	schedule := []struct {
		spec string
		job  func()
	}{
		{"@daily", func() {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			authScheduler.CleanupTokens(ctx, a.DB, a.Config.Security.BlacklistTTLDays)
		}},
		{"*/5 * * * *", a.sweep(ctx, "close_stale_question_set_submissions", func(ctx context.Context) (int64, error) {
			return questionSetService.CloseStaleSubmissions(ctx, a.DB, time.Now())
		})},
		{"*/5 * * * *", a.sweep(ctx, "close_stale_assessment_submissions", func(ctx context.Context) (int64, error) {
			return assessmentService.CloseStaleAssessmentSubmissions(ctx, a.DB, time.Now())
		})},
		{"@hourly", a.sweep(ctx, "complete_finished_meetings", func(ctx context.Context) (int64, error) {
			n, err := meetingService.CompleteFinishedMeetings(ctx, a.DB, time.Now())
			return int64(n), err
		})},
	}
	for _, s := range schedule {
		if _, err := c.AddFunc(s.spec, s.job); err != nil {
			return nil, err
		}
	}
	c.Start()
	return c, nil
}
