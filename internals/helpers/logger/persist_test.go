package logger

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *memorySink) SaveLogs(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func TestPersistWriter_FiltersByLevel(t *testing.T) {
	sink := &memorySink{}
	w := NewPersistWriter(sink, zerolog.WarnLevel)

	l := zerolog.New(zerolog.MultiLevelWriter(&bytes.Buffer{}, w))
	l.Info().Msg("ignored")
	l.Warn().Str("component", "grading").Msg("slow grading")
	l.Error().Err(assert.AnError).Msg("failed")
	w.Flush()

	require.Len(t, sink.entries, 2)
	assert.Equal(t, "warn", sink.entries[0].Level)
	assert.Equal(t, "slow grading", sink.entries[0].Message)
	assert.Equal(t, "grading", sink.entries[0].Logger)
	assert.Equal(t, assert.AnError.Error(), sink.entries[1].Exception)
}

func TestPersistWriter_StopFlushes(t *testing.T) {
	sink := &memorySink{}
	w := NewPersistWriter(sink, zerolog.ErrorLevel)
	w.Start()

	l := zerolog.New(w)
	l.Error().Msg("one")
	w.Stop()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.entries, 1)
	assert.Equal(t, "one", sink.entries[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestParseEntry(t *testing.T) {
	e := parseEntry(zerolog.ErrorLevel, []byte(`{"message":"boom","component":"jobs","error":"nil map"}`))
	assert.Equal(t, "error", e.Level)
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, "jobs", e.Logger)
	assert.Equal(t, "nil map", e.Exception)

	plain := parseEntry(zerolog.WarnLevel, []byte("WRN slow query"))
	assert.Equal(t, "WRN slow query", plain.Message)
	assert.Empty(t, plain.Logger)
}
