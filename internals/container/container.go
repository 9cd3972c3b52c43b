// Package container builds the shared dependencies every route group receives.
package container

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/configs"
	mailService "academykit_backend/internals/features/notifications/mail/service"
	zoomService "academykit_backend/internals/features/meetings/zoom/service"
	logService "academykit_backend/internals/features/system/logs/service"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/logger"
	"academykit_backend/internals/helpers/mailer"
	"academykit_backend/internals/helpers/openai"
	"academykit_backend/internals/helpers/storage"
	"academykit_backend/internals/helpers/zoom"
	"academykit_backend/internals/middlewares/auth"
	"academykit_backend/internals/middlewares/authz"
)

type App struct {
	Config *configs.Config
	DB     *gorm.DB

	// Auth validates the bearer token; Authz gates (resource, action) pairs after it.
	Auth  fiber.Handler
	Authz *authz.Enforcer

	Queue    *jobs.Queue
	Mailer   mailer.Sender
	Renderer *mailer.Renderer
	Storage  storage.Provider
	Zoom     *zoom.Client
	OpenAI   *openai.Client

	persist   *logger.PersistWriter
	cron      *cron.Cron
	StartedAt time.Time
}

func New(cfg *configs.Config, db *gorm.DB) (*App, error) {
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, err
	}
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "init storage")
	}
	sender := mailer.NewSender(cfg.Mail, cfg.App.Name)
	queue, err := jobs.NewQueue(jobs.DefaultConfig())
	if err != nil {
		return nil, errors.Wrap(err, "init job queue")
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Auth:      auth.AuthMiddleware(auth.GormStore{DB: db}, cfg.JWT.Secret),
		Authz:     enforcer,
		Queue:     queue,
		Mailer:    sender,
		Renderer:  mailer.NewRenderer(cfg.App.Name, cfg.App.FrontendURL, mailService.TemplateStore{DB: db}),
		Storage:   store,
		Zoom:      zoom.NewClient(cfg.Zoom, zoomService.CredentialsFrom(db)),
		OpenAI:    openai.NewClient(cfg.OpenAI),
		StartedAt: time.Now(),
	}
	a.registerJobs()
	return a, nil
}

// Start runs the job consumers, the cron schedule and the warn+ log persister.
func (a *App) Start(ctx context.Context) error {
	a.persist = logger.NewPersistWriter(logService.Sink{DB: a.DB}, logger.ParseLevel(a.Config.Log.PersistMin))
	a.persist.Start()
	logger.Attach(a.persist)

	if err := a.Queue.Start(ctx); err != nil {
		return errors.Wrap(err, "start job queue")
	}
	c, err := a.startCron(ctx)
	if err != nil {
		return err
	}
	a.cron = c
	log.Info().Str("mail", a.Config.Mail.Provider).Str("storage", a.Config.Storage.Provider).
		Bool("openai", a.OpenAI.Configured()).Msg("[APP] background workers started")
	return nil
}

// Close stops cron first so no new jobs are produced, then drains the queue and the log buffer.
func (a *App) Close() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if err := a.Queue.Close(); err != nil {
		log.Warn().Err(err).Msg("[APP] close job queue")
	}
	if a.persist != nil {
		logger.Attach(nil)
		a.persist.Stop()
	}
}
