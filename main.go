package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"academykit_backend/internals/configs"
	"academykit_backend/internals/container"
	database "academykit_backend/internals/databases"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/logger"
	middlewares "academykit_backend/internals/middlewares"
	httpLogger "academykit_backend/internals/middlewares/logger"
	routes "academykit_backend/internals/route"
	"academykit_backend/internals/seeds"
)

func main() {
	root := &cobra.Command{
		Use:           "academykit",
		Short:         "AcademyKit learning management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server, job consumers and cron",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(func(_ *configs.Config, db *gorm.DB) error {
					return database.Migrate(cmd.Context(), db)
				})
			},
		},
		seedCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("[APP] exited with error")
		os.Exit(1)
	}
}

func seedCommand() *cobra.Command {
	var usersFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the superadmin, default levels, mail templates and settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(cfg *configs.Config, db *gorm.DB) error {
				return seeds.RunAllSeeds(cmd.Context(), db, cfg, usersFile)
			})
		},
	}
	cmd.Flags().StringVar(&usersFile, "users", configs.GetEnv("SEED_USERS_FILE"), "optional JSON file of demo users")
	return cmd
}

func boot() (*configs.Config, error) {
	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func withDB(fn func(cfg *configs.Config, db *gorm.DB) error) error {
	cfg, err := boot()
	if err != nil {
		return err
	}
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(cfg, db)
}

func serve(ctx context.Context) error {
	cfg, err := boot()
	if err != nil {
		return err
	}
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	database.WarmUpQueries(db)

	a, err := container.New(cfg, db)
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Close()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		BodyLimit:             (cfg.Storage.MaxUploadMB + 1) << 20,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})
	app.Use(
		middlewares.RecoveryMiddleware(),
		middlewares.RequestIDMiddleware(),
		httpLogger.LoggerMiddleware(),
		middlewares.MetricsMiddleware(),
		middlewares.CorsMiddleware(cfg.CORS.AllowOrigins),
		middlewares.GlobalRateLimiter(),
		compress.New(compress.Config{Level: compress.LevelDefault}),
		etag.New(),
	)
	routes.SetupRoutes(app, a)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("[APP] listening")
		errc <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("[APP] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
