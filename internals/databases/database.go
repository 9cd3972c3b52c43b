package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"academykit_backend/internals/configs"
)

var DB *gorm.DB

// ConnectDB opens the postgres pool. PreferSimpleProtocol keeps PgBouncer transaction pooling happy.
func ConnectDB(cfg *configs.Config) (*gorm.DB, error) {
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("[DB] connecting")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(!cfg.IsProduction()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	DB = db
	TunePool(db, cfg.Database)
	log.Info().Msg("[DB] connected")
	return db, nil
}

func TunePool(db *gorm.DB, cfg configs.DatabaseConfig) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("[DB] pool tune")
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

// WarmUpQueries fills the pool shortly after boot.
func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			log.Warn().Err(err).Msg("[DB] warm-up ping")
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not initialised")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
