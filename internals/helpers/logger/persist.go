package logger

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Entry is one persisted log line.
type Entry struct {
	Level     string
	Message   string
	Logger    string
	Exception string
	Timestamp time.Time
}

// Sink stores a batch of entries.
type Sink interface {
	SaveLogs(ctx context.Context, entries []Entry) error
}

// PersistWriter buffers entries at or above MinLevel and flushes them in batches.
type PersistWriter struct {
	sink      Sink
	minLevel  zerolog.Level
	batchSize int
	interval  time.Duration

	mu     sync.Mutex
	buf    []Entry
	flushC chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewPersistWriter(sink Sink, minLevel zerolog.Level) *PersistWriter {
	return &PersistWriter{
		sink:      sink,
		minLevel:  minLevel,
		batchSize: 50,
		interval:  time.Second,
		flushC:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Write satisfies io.Writer; entries without a level are ignored.
func (w *PersistWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w *PersistWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.minLevel || level == zerolog.NoLevel {
		return len(p), nil
	}
	e := parseEntry(level, p)

	w.mu.Lock()
	w.buf = append(w.buf, e)
	full := len(w.buf) >= w.batchSize
	w.mu.Unlock()

	if full {
		select {
		case w.flushC <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

func parseEntry(level zerolog.Level, p []byte) Entry {
	e := Entry{Level: level.String(), Timestamp: time.Now().UTC()}
	var raw map[string]any
	if err := sonic.Unmarshal(p, &raw); err != nil {
		// console-format lines are stored verbatim
		e.Message = string(p)
		return e
	}
	if s, ok := raw[zerolog.MessageFieldName].(string); ok {
		e.Message = s
	}
	if s, ok := raw["component"].(string); ok {
		e.Logger = s
	}
	if s, ok := raw[zerolog.ErrorFieldName].(string); ok {
		e.Exception = s
	}
	if e.Message == "" {
		e.Message = string(p)
	}
	return e
}

// Start runs the flush loop until Stop is called.
func (w *PersistWriter) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Flush()
			case <-w.flushC:
				w.Flush()
			case <-w.done:
				w.Flush()
				return
			}
		}
	}()
}

func (w *PersistWriter) Stop() {
	close(w.done)
	w.wg.Wait()
}

// Flush writes the pending batch. Failures are dropped to avoid logging recursion.
func (w *PersistWriter) Flush() {
	w.mu.Lock()
	if len(w.buf) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.buf
	w.buf = nil
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = w.sink.SaveLogs(ctx, batch)
}
