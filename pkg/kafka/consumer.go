package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafka_config "contactnorm/pkg/kafka/config"
	"contactnorm/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Reader is the part of *kafka.Reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultFetchBackoff = 1 * time.Second
	defaultRetryBackoff = 200 * time.Millisecond
)

type Consumer struct {
	reader       Reader
	dlqWriter    Writer
	topic        string
	groupID      string
	dlqTopic     string
	maxRetries   int
	fetchBackoff time.Duration
	retryBackoff time.Duration
	handler      MessageHandler
	log          *logger.Logger
	middleware   []ConsumerMiddleware
	closed       bool
	mu           sync.RWMutex
	wg           sync.WaitGroup
}

type ConsumerMiddleware func(ctx context.Context, msg Message, next MessageHandler) error

func NewConsumer(cfg *kafka_config.Config, topic string, groupID string, dlqTopic string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             topic,
		GroupID:           groupID,
		MinBytes:          cfg.ConsumerMinBytes,
		MaxBytes:          cfg.ConsumerMaxBytes,
		MaxWait:           cfg.ConsumerMaxWait,
		CommitInterval:    cfg.ConsumerCommitInterval,
		HeartbeatInterval: cfg.ConsumerHeartbeatInterval,
		SessionTimeout:    cfg.ConsumerSessionTimeout,
		RebalanceTimeout:  cfg.ConsumerRebalanceTimeout,
		StartOffset:       cfg.ConsumerStartOffset,
		Logger:            kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:       errorLogger(log, topic),
	})

	var dlqWriter Writer
	if dlqTopic != "" {
		dlqWriter = newDLQWriter(cfg, dlqTopic, log)
	}

	c := newConsumer(reader, dlqWriter, topic, groupID, dlqTopic, handler, log)
	c.maxRetries = cfg.ConsumerMaxRetries
	return c, nil
}

func newConsumer(reader Reader, dlqWriter Writer, topic, groupID, dlqTopic string, handler MessageHandler, log *logger.Logger) *Consumer {
	return &Consumer{
		reader:       reader,
		dlqWriter:    dlqWriter,
		topic:        topic,
		groupID:      groupID,
		dlqTopic:     dlqTopic,
		maxRetries:   kafka_config.DefaultConsumerMaxRetries,
		fetchBackoff: defaultFetchBackoff,
		retryBackoff: defaultRetryBackoff,
		handler:      handler,
		log:          log,
		middleware:   make([]ConsumerMiddleware, 0),
	}
}

func (c *Consumer) Use(middleware ConsumerMiddleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, middleware)
}

// Start consumes until ctx is cancelled. Every fetched message is committed
// once it was handled, retried out or dead-lettered.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConsumerClosed
	}
	c.wg.Add(1)
	handler := c.chain()
	c.mu.RUnlock()
	defer c.wg.Done()

	for {
		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.log.Error("Kafka consumer failed to fetch message", "topic", c.topic, "error", err)
			if !sleep(ctx, c.fetchBackoff) {
				return ctx.Err()
			}
			continue
		}

		msg := convertMessage(kafkaMsg)
		if err := c.processMessage(ctx, handler, msg); err != nil {
			c.log.Error("Kafka consumer failed to process message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", msg.Key,
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("Kafka consumer failed to commit offset", "topic", c.topic, "offset", kafkaMsg.Offset, "error", err)
		}
	}
}

func (c *Consumer) chain() MessageHandler {
	handler := c.handler
	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return middleware(ctx, m, next)
		}
	}
	return handler
}

// processMessage retries transient failures with linear backoff and sends
// everything else to the DLQ.
func (c *Consumer) processMessage(ctx context.Context, handler MessageHandler, msg Message) error {
	for {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		retries := msg.GetRetryCount()
		if ShouldRetry(err, retries, c.maxRetries) {
			msg.IncrementRetryCount()
			c.log.Warn("Retrying message",
				"attempt", retries+1,
				"max_retries", c.maxRetries,
				"key", msg.Key,
				"error", err,
			)
			if !sleep(ctx, c.retryBackoff*time.Duration(retries+1)) {
				return ctx.Err()
			}
			continue
		}

		if c.dlqWriter != nil {
			if dlqErr := writeDLQ(ctx, c.dlqWriter, msg, c.topic, c.groupID, err); dlqErr != nil {
				c.log.Error("Failed to send message to DLQ", "dlq_topic", c.dlqTopic, "error", dlqErr, "original_error", err)
			} else {
				c.log.Warn("Message sent to DLQ", "dlq_topic", c.dlqTopic, "key", msg.Key, "retries", retries, "error", err)
			}
		}
		return err
	}
}

func convertMessage(kafkaMsg kafka.Message) Message {
	msg := Message{
		Key:       string(kafkaMsg.Key),
		Value:     kafkaMsg.Value,
		Headers:   make(map[string]string, len(kafkaMsg.Headers)),
		Topic:     kafkaMsg.Topic,
		Partition: kafkaMsg.Partition,
		Offset:    kafkaMsg.Offset,
		Timestamp: kafkaMsg.Time,
	}
	for _, header := range kafkaMsg.Headers {
		msg.Headers[header.Key] = string(header.Value)
	}
	return msg
}

// Close waits for Start to return, so cancel its context first.
func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()

	var err error
	if c.reader != nil {
		err = c.reader.Close()
	}
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
