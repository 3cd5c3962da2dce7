package kafka_middleware

import (
	"context"
	"time"

	"contactnorm/pkg/kafka"
	"contactnorm/pkg/logger"
)

// LoggingProducerMiddleware logs every publish at debug and failures at error
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"correlation_id", msg.GetCorrelationID(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.Error("Kafka publish failed", append(attrs, "error", err)...)
		} else {
			log.Debug("Kafka message published", attrs...)
		}

		return err
	}
}

// LoggingConsumerMiddleware logs every handled message at debug and failures
// at error
func LoggingConsumerMiddleware(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"correlation_id", msg.GetCorrelationID(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.Error("Kafka message processing failed", append(attrs, "error", err)...)
		} else {
			log.Debug("Kafka message processed", attrs...)
		}

		return err
	}
}
