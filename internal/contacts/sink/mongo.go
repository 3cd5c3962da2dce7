package sink

import (
	"context"

	"contactnorm/internal/contacts/repository"
	"contactnorm/pkg/logger"
	"contactnorm/pkg/model"
)

// Mongo persists a batch under RunID. Contacts are upserted by key and
// rejections are appended.
type Mongo struct {
	Repo  repository.ContactRepository
	RunID string
	Log   *logger.Logger
}

func (m Mongo) WriteContacts(ctx context.Context, contacts []model.Contact) error {
	res, err := m.Repo.UpsertContacts(ctx, m.RunID, contacts)
	if err != nil {
		return err
	}
	m.Log.Info("Contacts persisted",
		"run_id", m.RunID,
		"inserted", res.Inserted,
		"updated", res.Updated,
	)
	return nil
}

func (m Mongo) WriteRejections(ctx context.Context, rejections []model.Rejection) error {
	if err := m.Repo.InsertRejections(ctx, m.RunID, rejections); err != nil {
		return err
	}
	m.Log.Info("Rejections persisted", "run_id", m.RunID, "count", len(rejections))
	return nil
}
