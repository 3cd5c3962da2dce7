package stream

import (
	"context"
	"errors"
	"strings"

	"contactnorm/internal/contacts/service"
	"contactnorm/pkg/kafka"
	"contactnorm/pkg/logger"
	"contactnorm/pkg/model"
)

const (
	EventContactRaw        = "contact.raw"
	EventContactNormalized = "contact.normalized"
	EventContactRejected   = "contact.rejected"

	SchemaVersion = "1"
	Source        = "contactnorm"
)

// ErrUnkeyedContact marks a raw contact that carries neither an id nor a row.
var ErrUnkeyedContact = errors.New("contact has no id and no row")

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Pipeline normalizes one raw contact per message and routes the outcome to
// the normalized or rejected topic.
type Pipeline struct {
	service    service.ContactService
	normalized Publisher
	rejected   Publisher
	log        *logger.Logger
}

func NewPipeline(service service.ContactService, normalized, rejected Publisher, log *logger.Logger) *Pipeline {
	return &Pipeline{
		service:    service,
		normalized: normalized,
		rejected:   rejected,
		log:        log,
	}
}

// Handle is a kafka.MessageHandler. Undecodable payloads fail permanently so
// the consumer dead-letters them; publish failures are retried.
func (p *Pipeline) Handle(ctx context.Context, msg kafka.Message) error {
	var raw model.RawContact
	if err := msg.DecodeValue(&raw); err != nil {
		return kafka.NewPermanentError("undecodable contact payload", err)
	}
	// Offsets restart on every partition, so they cannot key a record that
	// has no id.
	if raw.Row == 0 {
		if strings.TrimSpace(raw.ID) == "" {
			return kafka.NewPermanentError("contact without id or row", ErrUnkeyedContact)
		}
		raw.Row = int(msg.Offset) + 1
	}

	out := p.service.Normalize(ctx, raw)
	correlationID := msg.GetCorrelationID()
	if correlationID == "" {
		correlationID = msg.GetEventID()
	}

	if out.OK() {
		return p.publish(ctx, p.normalized, EventContactNormalized, out.Contact.Key(), correlationID, out.Contact)
	}

	p.log.Debug("Contact rejected",
		"id", out.Rejection.ID,
		"reason", out.Rejection.Reason,
		"offset", msg.Offset,
	)
	return p.publish(ctx, p.rejected, EventContactRejected, out.Rejection.ID, correlationID, out.Rejection)
}

func (p *Pipeline) publish(ctx context.Context, to Publisher, eventType, key, correlationID string, value any) error {
	out, err := kafka.NewMessage().
		WithKey(key).
		WithValue(value).
		WithEventID("").
		WithEventType(eventType).
		WithCorrelationID(correlationID).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
	if err != nil {
		return kafka.NewPermanentError("failed to build "+eventType+" event", err)
	}

	if err := to.Publish(ctx, out); err != nil {
		return kafka.NewTransientError("failed to publish "+eventType+" event", err)
	}
	return nil
}

// RawContactMessage builds the message a producer of raw contacts sends.
func RawContactMessage(raw model.RawContact) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(raw.Key()).
		WithValue(raw).
		WithEventID("").
		WithEventType(EventContactRaw).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
}
