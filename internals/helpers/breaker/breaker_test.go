package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestBreakerTripsAfterThreshold(t *testing.T) {
	cfg := DefaultConfig("test-breaker")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute
	cb := New[string](cfg)

	fail := func() (string, error) { return "", errors.New("upstream down") }
	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(fail)

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (string, error) { return "ok", nil })
	assert.True(t, IsOpen(err))
}

func TestBreakerPassesResults(t *testing.T) {
	cb := New[int](DefaultConfig("pass-through"))
	v, err := cb.Execute(func() (int, error) { return 42, nil })
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}
