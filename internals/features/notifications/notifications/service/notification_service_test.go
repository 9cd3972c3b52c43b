package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNotifySkipsEmptyRecipients(t *testing.T) {
	// nil DB: nothing may reach the database.
	assert.NoError(t, Notify(context.Background(), nil, nil, "t", "m"))
	assert.NoError(t, Notify(context.Background(), nil, []uuid.UUID{uuid.Nil, uuid.Nil}, "t", "m"))
}

func TestNotifyOrLogReportsInsertFailure(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1",
	}), &gorm.Config{DisableAutomaticPing: true, Logger: logger.Discard})
	require.NoError(t, err)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	assert.NotPanics(t, func() {
		NotifyOrLog(context.Background(), db, []uuid.UUID{uuid.New()}, "Course", "published")
	})
	assert.Contains(t, buf.String(), "[NOTIFY] insert failed")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
