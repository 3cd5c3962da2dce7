package kafka

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"contactnorm/pkg/logger"

	"github.com/segmentio/kafka-go"
)

func runConsumer(t *testing.T, reader *fakeReader, dlq *fakeWriter, want int, handler MessageHandler) *Consumer {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reader.onCommit = func(total int) {
		if total >= want {
			cancel()
		}
	}

	var dlqWriter Writer
	if dlq != nil {
		dlqWriter = dlq
	}
	c := newConsumer(reader, dlqWriter, "raw-contacts", "group", "dlq-contacts", handler, logger.Discard())
	c.retryBackoff = time.Millisecond

	err := c.Start(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() = %v, want context.Canceled", err)
	}
	return c
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Topic: "raw-contacts", Key: []byte("a"), Value: []byte("1")},
		{Topic: "raw-contacts", Key: []byte("b"), Value: []byte("2")},
	}}

	var keys []string
	runConsumer(t, reader, nil, 2, func(ctx context.Context, msg Message) error {
		keys = append(keys, msg.Key)
		return nil
	})

	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("handled keys = %v", keys)
	}
	if len(reader.committed) != 2 {
		t.Errorf("committed = %d, want 2", len(reader.committed))
	}
}

func TestConsumer_RetriesTransient(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte("1")}}}
	dlq := &fakeWriter{}

	var calls atomic.Int32
	runConsumer(t, reader, dlq, 1, func(ctx context.Context, msg Message) error {
		if calls.Add(1) < 3 {
			return NewTransientError("mongo timeout", nil)
		}
		return nil
	})

	if calls.Load() != 3 {
		t.Errorf("handler calls = %d, want 3", calls.Load())
	}
	if len(dlq.messages()) != 0 {
		t.Error("recovered message must not reach the DLQ")
	}
}

func TestConsumer_PermanentGoesToDLQ(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte("not json")}}}
	dlq := &fakeWriter{}

	var calls atomic.Int32
	runConsumer(t, reader, dlq, 1, func(ctx context.Context, msg Message) error {
		calls.Add(1)
		return NewPermanentError("undecodable payload", nil)
	})

	if calls.Load() != 1 {
		t.Errorf("handler calls = %d, want 1", calls.Load())
	}
	got := dlq.messages()
	if len(got) != 1 {
		t.Fatalf("dlq writes = %d, want 1", len(got))
	}
	if header(got[0], HeaderDLQGroup) != "group" || header(got[0], HeaderOriginalTopic) != "raw-contacts" {
		t.Errorf("dlq headers = %+v", got[0].Headers)
	}
	if string(got[0].Value) != "not json" {
		t.Errorf("dlq value = %q", got[0].Value)
	}
}

func TestConsumer_TransientExhaustsRetries(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("a"), Value: []byte("1")}}}
	dlq := &fakeWriter{}

	var calls atomic.Int32
	c := runConsumer(t, reader, dlq, 1, func(ctx context.Context, msg Message) error {
		calls.Add(1)
		return NewTransientError("timeout", nil)
	})

	if want := int32(c.maxRetries + 1); calls.Load() != want {
		t.Errorf("handler calls = %d, want %d", calls.Load(), want)
	}
	if len(dlq.messages()) != 1 {
		t.Error("exhausted message should be dead-lettered")
	}
}

func TestConsumer_Closed(t *testing.T) {
	c := newConsumer(&fakeReader{}, nil, "t", "g", "", func(context.Context, Message) error { return nil }, logger.Discard())
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrConsumerClosed) {
		t.Errorf("Start() after close = %v", err)
	}
}
