//go:build integration

// Package testinfra starts a throwaway Postgres for integration tests. Run them with
// `go test -tags integration ./...`; they skip without Docker or under -short.
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"academykit_backend/internals/configs"
	database "academykit_backend/internals/databases"
)

const (
	image        = "postgres:16-alpine"
	templateName = "academykit"
	user         = "academykit"
	password     = "academykit"
)

var (
	once     sync.Once
	shared   *tcpostgres.PostgresContainer
	baseCfg  configs.DatabaseConfig
	startErr error
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func config(db configs.DatabaseConfig) *configs.Config {
	return &configs.Config{App: configs.AppConfig{Env: "test"}, Database: db}
}

// start runs one container per test binary and migrates the template database.
// Ryuk reaps the container when the binary exits.
func start() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase(templateName),
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		startErr = fmt.Errorf("start postgres: %w", err)
		return
	}
	shared = c

	host, err := c.Host(ctx)
	if err != nil {
		startErr = err
		return
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		startErr = err
		return
	}
	baseCfg = configs.DatabaseConfig{
		Host:            host,
		Port:            port.Port(),
		User:            user,
		Password:        password,
		Name:            templateName,
		SSLMode:         "disable",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxIdleTime: time.Minute,
		ConnMaxLifetime: 5 * time.Minute,
		StatementTimeMs: 30000,
	}

	db, err := database.ConnectDB(config(baseCfg))
	if err != nil {
		startErr = err
		return
	}
	defer database.Close(db)
	if err := database.Migrate(ctx, db); err != nil {
		startErr = fmt.Errorf("migrate template: %w", err)
	}
}

// Postgres returns a migrated database private to t, cloned from the template.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()
	SkipIfNoDocker(t)

	once.Do(start)
	if startErr != nil {
		t.Fatalf("postgres: %v", startErr)
	}

	ctx := context.Background()
	name := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := database.ConnectDB(config(withName(baseCfg, "postgres")))
	if err != nil {
		t.Fatalf("connect admin: %v", err)
	}
	defer database.Close(admin)
	if err := admin.WithContext(ctx).Exec(fmt.Sprintf("CREATE DATABASE %s TEMPLATE %s", name, templateName)).Error; err != nil {
		t.Fatalf("create database: %v", err)
	}

	db, err := database.ConnectDB(config(withName(baseCfg, name)))
	if err != nil {
		t.Fatalf("connect %s: %v", name, err)
	}
	t.Cleanup(func() {
		database.Close(db)
		admin, err := database.ConnectDB(config(withName(baseCfg, "postgres")))
		if err != nil {
			t.Logf("Warning: drop %s: %v", name, err)
			return
		}
		defer database.Close(admin)
		if err := admin.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", name)).Error; err != nil {
			t.Logf("Warning: drop %s: %v", name, err)
		}
	})
	return db
}

func withName(cfg configs.DatabaseConfig, name string) configs.DatabaseConfig {
	cfg.Name = name
	return cfg
}
