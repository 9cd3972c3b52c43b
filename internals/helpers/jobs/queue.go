// Package jobs is the fire-and-forget background queue built on a watermill router over in-process pub/sub.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"academykit_backend/internals/helpers/metrics"
)

// PoisonTopic receives jobs whose handler kept failing after every retry.
const PoisonTopic = "jobs.poison"

// Handler consumes one job payload.
type Handler func(ctx context.Context, payload []byte) error

// Enqueuer is what producers depend on.
type Enqueuer interface {
	Enqueue(ctx context.Context, topic string, payload any) error
}

type Config struct {
	Buffer          int64
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	CloseTimeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Buffer:          256,
		MaxRetries:      4,
		InitialInterval: 2 * time.Second,
		MaxInterval:     time.Minute,
		Multiplier:      2,
		CloseTimeout:    10 * time.Second,
	}
}

type Queue struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewQueue wires the router middleware, outer to inner: poison queue, retry, recoverer.
func NewQueue(cfg Config) (*Queue, error) {
	logger := NewZerologAdapter()
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: cfg.Buffer}, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create job router: %w", err)
	}

	poison, err := middleware.PoisonQueue(pubsub, PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("create poison queue: %w", err)
	}
	router.AddMiddleware(
		poison,
		middleware.Retry{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: cfg.InitialInterval,
			MaxInterval:     cfg.MaxInterval,
			Multiplier:      cfg.Multiplier,
			Logger:          logger,
		}.Middleware,
		middleware.Recoverer,
	)

	router.AddNoPublisherHandler("jobs.poison", PoisonTopic, pubsub, func(msg *message.Message) error {
		topic := msg.Metadata.Get(middleware.PoisonedTopicKey)
		metrics.JobsProcessedTotal.WithLabelValues(topic, "failed").Inc()
		log.Error().
			Str("topic", topic).
			Str("job_id", msg.UUID).
			Str("reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey)).
			Msg("[JOBS] giving up")
		return nil
	})

	return &Queue{pubsub: pubsub, router: router, logger: logger}, nil
}

// Handle registers the consumer of topic. It must be called before Start.
func (q *Queue) Handle(topic string, h Handler) {
	q.router.AddNoPublisherHandler(topic, topic, q.pubsub, func(msg *message.Message) error {
		if err := h(msg.Context(), msg.Payload); err != nil {
			return err
		}
		metrics.JobsProcessedTotal.WithLabelValues(topic, "success").Inc()
		return nil
	})
}

// Enqueue serialises payload and publishes it. Messages on topics without a consumer are dropped.
func (q *Queue) Enqueue(ctx context.Context, topic string, payload any) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		msg.Metadata.Set("request_id", rid)
	}
	if err := q.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish job %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Str("job_id", msg.UUID).Msg("[JOBS] enqueued")
	return nil
}

// Start runs the router in the background and returns once every handler is subscribed.
func (q *Queue) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		if err := q.router.Run(ctx); err != nil {
			errc <- err
		}
	}()
	select {
	case <-q.router.Running():
		return nil
	case err := <-errc:
		return fmt.Errorf("run job router: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains in-flight handlers, then closes the pub/sub.
func (q *Queue) Close() error {
	rerr := q.router.Close()
	if err := q.pubsub.Close(); err != nil && rerr == nil {
		rerr = err
	}
	return rerr
}

// Decode unmarshals a payload inside a handler.
func Decode[T any](payload []byte) (T, error) {
	var v T
	err := sonic.Unmarshal(payload, &v)
	return v, err
}

type requestIDKey struct{}

// WithRequestID tags jobs enqueued under ctx with the HTTP request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
