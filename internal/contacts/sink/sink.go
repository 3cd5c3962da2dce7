package sink

import (
	"context"
	"errors"

	"contactnorm/pkg/model"
)

// Sink receives the outcome of a batch. Contacts carry only records whose
// phone and date of birth both normalized.
type Sink interface {
	WriteContacts(ctx context.Context, contacts []model.Contact) error
	WriteRejections(ctx context.Context, rejections []model.Rejection) error
}

// Multi fans every write out to all sinks and joins their errors.
type Multi []Sink

func (m Multi) WriteContacts(ctx context.Context, contacts []model.Contact) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteContacts(ctx, contacts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) WriteRejections(ctx context.Context, rejections []model.Rejection) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteRejections(ctx, rejections); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
