package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"contactnorm/pkg/kafka"
)

func TestMetrics_Counts(t *testing.T) {
	m := NewMetrics()
	consume := m.ConsumerMiddleware()
	publish := m.ProducerMiddleware()

	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("x") }

	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, fail)
	_ = publish(context.Background(), kafka.Message{}, ok)
	_ = publish(context.Background(), kafka.Message{}, fail)

	s := m.Snapshot()
	if s.Consumed != 2 || s.ConsumedFailed != 1 {
		t.Errorf("consumed = %d/%d, want 2/1", s.Consumed, s.ConsumedFailed)
	}
	if s.Published != 1 || s.PublishedFailed != 1 {
		t.Errorf("published = %d/%d, want 1/1", s.Published, s.PublishedFailed)
	}
	if len(s.LogAttrs())%2 != 0 {
		t.Error("LogAttrs must be key/value pairs")
	}
}

func TestMetrics_PassesErrorThrough(t *testing.T) {
	m := NewMetrics()
	want := errors.New("boom")

	err := m.ConsumerMiddleware()(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}
