package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"contactnorm/pkg/kafka"
)

// Metrics counts Kafka operations. Safe for concurrent use.
type Metrics struct {
	published       atomic.Int64
	publishedFailed atomic.Int64
	publishNanos    atomic.Int64

	consumed       atomic.Int64
	consumedFailed atomic.Int64
	consumeNanos   atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot is a point-in-time copy of Metrics
type Snapshot struct {
	Published          int64
	PublishedFailed    int64
	AvgPublishDuration time.Duration
	Consumed           int64
	ConsumedFailed     int64
	AvgConsumeDuration time.Duration
}

func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Published:       m.published.Load(),
		PublishedFailed: m.publishedFailed.Load(),
		Consumed:        m.consumed.Load(),
		ConsumedFailed:  m.consumedFailed.Load(),
	}
	if n := s.Published + s.PublishedFailed; n > 0 {
		s.AvgPublishDuration = time.Duration(m.publishNanos.Load() / n)
	}
	if n := s.Consumed + s.ConsumedFailed; n > 0 {
		s.AvgConsumeDuration = time.Duration(m.consumeNanos.Load() / n)
	}
	return s
}

// LogAttrs renders the snapshot as slog key/value pairs
func (s Snapshot) LogAttrs() []any {
	return []any{
		"published", s.Published,
		"published_failed", s.PublishedFailed,
		"avg_publish_ms", s.AvgPublishDuration.Milliseconds(),
		"consumed", s.Consumed,
		"consumed_failed", s.ConsumedFailed,
		"avg_consume_ms", s.AvgConsumeDuration.Milliseconds(),
	}
}

func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		m.publishNanos.Add(int64(time.Since(start)))
		if err != nil {
			m.publishedFailed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}

func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		m.consumeNanos.Add(int64(time.Since(start)))
		if err != nil {
			m.consumedFailed.Add(1)
		} else {
			m.consumed.Add(1)
		}
		return err
	}
}
