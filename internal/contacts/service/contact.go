package service

import (
	"context"
	"strings"
	"time"

	"contactnorm/internal/contacts/validator"
	"contactnorm/pkg/config"
	"contactnorm/pkg/model"
	"contactnorm/pkg/normalizer"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FieldNormalizer turns one raw field into its canonical form or fails with
// a *normalizer.Error.
type FieldNormalizer interface {
	Normalize(raw string) (string, error)
}

type ContactService interface {
	NormalizePhone(raw string) (string, error)
	NormalizeDOB(raw string) (string, error)
	Normalize(ctx context.Context, raw model.RawContact) Outcome
	NormalizeAll(ctx context.Context, raws []model.RawContact) (*Result, error)
}

// Outcome of one record. Exactly one of Contact and Rejection is set.
type Outcome struct {
	Raw       model.RawContact
	Contact   *model.Contact
	Rejection *model.Rejection

	PhoneErr error
	DOBErr   error
}

func (o Outcome) OK() bool {
	return o.Contact != nil
}

// Result of a batch. Outcomes keep input order.
type Result struct {
	RunID      string
	Outcomes   []Outcome
	Processed  int
	Normalized int
	Skipped    int
	Duration   time.Duration
}

func (r *Result) Contacts() []model.Contact {
	contacts := make([]model.Contact, 0, r.Normalized)
	for _, o := range r.Outcomes {
		if o.Contact != nil {
			contacts = append(contacts, *o.Contact)
		}
	}
	return contacts
}

func (r *Result) Rejections() []model.Rejection {
	rejections := make([]model.Rejection, 0, r.Skipped)
	for _, o := range r.Outcomes {
		if o.Rejection != nil {
			rejections = append(rejections, *o.Rejection)
		}
	}
	return rejections
}

type contactService struct {
	phones    FieldNormalizer
	dobs      FieldNormalizer
	validator *validator.ContactValidator
	cfg       *config.Config
}

func NewContactService(
	phones FieldNormalizer,
	dobs FieldNormalizer,
	validator *validator.ContactValidator,
	cfg *config.Config,
) ContactService {
	return &contactService{
		phones:    phones,
		dobs:      dobs,
		validator: validator,
		cfg:       cfg,
	}
}

// NewFromConfig wires the libphonenumber and dateparse backed engines with
// the configured region, mobile prefix and pivot boundary.
func NewFromConfig(cfg *config.Config) ContactService {
	phones := normalizer.NewPhoneNormalizer(normalizer.LibPhoneNumberPlan{}, cfg.PhoneRegion, cfg.PhoneMobilePrefix)
	dobs := normalizer.NewDateNormalizer(normalizer.FuzzyDateParser{}, normalizer.PivotRule{Boundary: cfg.DOBPivotBoundary})
	return NewContactService(phones, dobs, validator.NewContactValidator(), cfg)
}

func (s *contactService) NormalizePhone(raw string) (string, error) {
	return s.phones.Normalize(raw)
}

func (s *contactService) NormalizeDOB(raw string) (string, error) {
	return s.dobs.Normalize(raw)
}

// Normalize runs both fields independently. A record is kept only when both
// succeed; otherwise every failure reason is reported.
func (s *contactService) Normalize(ctx context.Context, raw model.RawContact) Outcome {
	raw.ID = strings.TrimSpace(raw.ID)
	out := Outcome{Raw: raw}

	phone, phoneErr := s.phones.Normalize(raw.Phone)
	dob, dobErr := s.dobs.Normalize(raw.DOB)
	out.PhoneErr, out.DOBErr = phoneErr, dobErr

	if phoneErr == nil && dobErr == nil {
		contact := &model.Contact{ID: raw.ID, Phone: phone, DOB: dob, Row: raw.Row}
		if err := s.validator.Validate(contact); err != nil {
			s.cfg.Log.Error("Normalized contact failed validation",
				"id", raw.Key(),
				"phone", phone,
				"dob", dob,
				"error", err,
			)
			out.Rejection = s.reject(raw, err.Error())
			return out
		}
		out.Contact = contact
		return out
	}

	reasons := make([]string, 0, 2)
	for _, err := range []error{phoneErr, dobErr} {
		if err != nil {
			reasons = append(reasons, normalizer.Reason(err))
		}
	}
	out.Rejection = s.reject(raw, strings.Join(reasons, "; "))
	s.cfg.Log.Debug("Contact skipped", "id", out.Rejection.ID, "reason", out.Rejection.Reason)
	return out
}

func (s *contactService) reject(raw model.RawContact, reason string) *model.Rejection {
	return &model.Rejection{
		ID:     raw.Key(),
		Row:    raw.Row,
		Reason: reason,
	}
}

// NormalizeAll fans records out over BatchWorkers goroutines. Records without
// a row number are numbered by position. Only cancellation fails the batch.
func (s *contactService) NormalizeAll(ctx context.Context, raws []model.RawContact) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:    uuid.NewString(),
		Outcomes: make([]Outcome, len(raws)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.BatchWorkers))

	for i := range raws {
		if gctx.Err() != nil {
			break
		}
		i := i
		raw := raws[i]
		if raw.Row == 0 {
			raw.Row = i + 1
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Outcomes[i] = s.Normalize(gctx, raw)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, o := range res.Outcomes {
		if o.OK() {
			res.Normalized++
		} else {
			res.Skipped++
		}
	}
	res.Processed = len(raws)
	res.Duration = time.Since(start)

	s.cfg.Log.Info("Batch normalized",
		"run_id", res.RunID,
		"processed", res.Processed,
		"normalized", res.Normalized,
		"skipped", res.Skipped,
		"workers", s.cfg.BatchWorkers,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
