package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportDuration(t *testing.T) {
	join := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, ReportDuration(join, join))
	assert.Equal(t, 90, ReportDuration(join, join.Add(90*time.Second+500*time.Millisecond)))
	assert.Equal(t, 0, ReportDuration(join, join.Add(-time.Minute)))
}
