package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/helpers/logger"
)

func TestToModel(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	plain := ToModel(logger.Entry{Level: "warn", Message: "slow query", Logger: "gorm", Timestamp: at})
	assert.Equal(t, "warn", plain.Level)
	assert.Equal(t, "gorm", plain.Logger)
	assert.Equal(t, at, plain.Timestamp)
	assert.Nil(t, plain.Exception)

	failed := ToModel(logger.Entry{Level: "error", Message: "send mail", Exception: "dial tcp: timeout"})
	require.NotNil(t, failed.Exception)
	assert.Equal(t, "dial tcp: timeout", *failed.Exception)
}
