package stream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"contactnorm/internal/contacts/service"
	"contactnorm/pkg/config"
	"contactnorm/pkg/kafka"
	"contactnorm/pkg/logger"
	"contactnorm/pkg/model"
)

// ────────────────────────────────────────────────
// Fake publisher for testing
// ────────────────────────────────────────────────

type fakePublisher struct {
	mu   sync.Mutex
	err  error
	sent []kafka.Message
}

func (f *fakePublisher) Publish(_ context.Context, msg kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestPipeline() (*Pipeline, *fakePublisher, *fakePublisher) {
	cfg := &config.Config{
		Log:               logger.Discard(),
		PhoneRegion:       "AE",
		PhoneMobilePrefix: "5",
		DOBPivotBoundary:  25,
		BatchWorkers:      1,
	}
	normalized, rejected := &fakePublisher{}, &fakePublisher{}
	return NewPipeline(service.NewFromConfig(cfg), normalized, rejected, cfg.Log), normalized, rejected
}

func rawMessage(t *testing.T, raw model.RawContact, offset int64) kafka.Message {
	t.Helper()
	msg, err := RawContactMessage(raw)
	if err != nil {
		t.Fatal(err)
	}
	msg.Offset = offset
	return msg
}

// ────────────────────────────────────────────────
// Tests for Handle()
// ────────────────────────────────────────────────

func TestHandle_Normalized(t *testing.T) {
	p, normalized, rejected := newTestPipeline()
	in := rawMessage(t, model.RawContact{ID: "1", Phone: "00971501234567", DOB: "12/05/1990"}, 4)

	if err := p.Handle(context.Background(), in); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(normalized.sent) != 1 || len(rejected.sent) != 0 {
		t.Fatalf("sent %d normalized, %d rejected", len(normalized.sent), len(rejected.sent))
	}

	out := normalized.sent[0]
	if out.Key != "1" {
		t.Errorf("key = %q", out.Key)
	}
	if out.GetEventType() != EventContactNormalized {
		t.Errorf("event type = %q", out.GetEventType())
	}
	if out.GetCorrelationID() != in.GetEventID() {
		t.Errorf("correlation id = %q, want %q", out.GetCorrelationID(), in.GetEventID())
	}

	var contact model.Contact
	if err := json.Unmarshal(out.Value, &contact); err != nil {
		t.Fatal(err)
	}
	want := model.Contact{ID: "1", Phone: "+971501234567", DOB: "1990-05-12"}
	if contact != want {
		t.Errorf("contact = %+v, want %+v", contact, want)
	}
}

func TestHandle_Rejected(t *testing.T) {
	p, normalized, rejected := newTestPipeline()
	in := rawMessage(t, model.RawContact{Phone: "abc", DOB: "31/02/2020", Row: 10}, 9)

	if err := p.Handle(context.Background(), in); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(normalized.sent) != 0 || len(rejected.sent) != 1 {
		t.Fatalf("sent %d normalized, %d rejected", len(normalized.sent), len(rejected.sent))
	}

	var rej model.Rejection
	if err := json.Unmarshal(rejected.sent[0].Value, &rej); err != nil {
		t.Fatal(err)
	}
	if rej.ID != "#row10" || rej.Row != 10 {
		t.Errorf("rejection = %+v, want #row10", rej)
	}
	want := "invalid phone: abc -> ; invalid date components y=2020 m=2 d=31"
	if rej.Reason != want {
		t.Errorf("reason = %q, want %q", rej.Reason, want)
	}
	if rejected.sent[0].Key != "#row10" {
		t.Errorf("key = %q", rejected.sent[0].Key)
	}
}

func TestHandle_KeepsProducerRow(t *testing.T) {
	p, _, rejected := newTestPipeline()

	if err := p.Handle(context.Background(), rawMessage(t, model.RawContact{Phone: "x", Row: 3}, 100)); err != nil {
		t.Fatal(err)
	}
	if got := rejected.sent[0].Key; got != "#row3" {
		t.Errorf("key = %q, want #row3", got)
	}
}

func TestHandle_OffsetRowWhenIDPresent(t *testing.T) {
	p, _, rejected := newTestPipeline()

	if err := p.Handle(context.Background(), rawMessage(t, model.RawContact{ID: "c-9", Phone: "x"}, 41)); err != nil {
		t.Fatal(err)
	}

	var rej model.Rejection
	if err := json.Unmarshal(rejected.sent[0].Value, &rej); err != nil {
		t.Fatal(err)
	}
	if rej.ID != "c-9" || rej.Row != 42 {
		t.Errorf("rejection = %+v, want id c-9 row 42", rej)
	}
}

func TestHandle_NoIDNoRowIsPermanent(t *testing.T) {
	p, normalized, rejected := newTestPipeline()

	for _, partition := range []int{0, 1} {
		msg := rawMessage(t, model.RawContact{ID: "  ", Phone: "0501234567", DOB: "12/05/1990"}, 7)
		msg.Partition = partition

		err := p.Handle(context.Background(), msg)
		if !errors.Is(err, ErrUnkeyedContact) {
			t.Fatalf("partition %d: error = %v, want ErrUnkeyedContact", partition, err)
		}
		if kafka.ShouldRetry(err, 0, 3) {
			t.Errorf("partition %d: unkeyed contact should not be retried", partition)
		}
	}
	if len(normalized.sent) != 0 || len(rejected.sent) != 0 {
		t.Errorf("sent %d normalized, %d rejected, want none", len(normalized.sent), len(rejected.sent))
	}
}

func TestHandle_UndecodableIsPermanent(t *testing.T) {
	p, normalized, rejected := newTestPipeline()
	msg, err := kafka.NewMessage().WithKey("k").WithRawValue([]byte("not json")).Build()
	if err != nil {
		t.Fatal(err)
	}

	err = p.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("error %v should be permanent", err)
	}
	if len(normalized.sent)+len(rejected.sent) != 0 {
		t.Error("nothing should be published for an undecodable payload")
	}
}

func TestHandle_PublishFailureIsTransient(t *testing.T) {
	p, normalized, _ := newTestPipeline()
	normalized.err = errors.New("leader not available")

	err := p.Handle(context.Background(), rawMessage(t, model.RawContact{ID: "1", Phone: "0501234567", DOB: "1990-05-12"}, 0))
	if err == nil {
		t.Fatal("expected error")
	}
	if !kafka.ShouldRetry(err, 0, 3) {
		t.Errorf("error %v should be retried", err)
	}
}

func TestRawContactMessage(t *testing.T) {
	msg, err := RawContactMessage(model.RawContact{Phone: "050", Row: 2})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Key != "#row2" {
		t.Errorf("key = %q", msg.Key)
	}
	if msg.GetEventType() != EventContactRaw || msg.GetEventID() == "" {
		t.Errorf("headers = %v", msg.Headers)
	}
}
