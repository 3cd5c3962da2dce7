package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contactnorm/pkg/config"
	"contactnorm/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ContactsCollection   = "contacts"
	RejectionsCollection = "contact_rejections"
)

type ContactRepository interface {
	UpsertContacts(ctx context.Context, runID string, contacts []model.Contact) (*UpsertResult, error)
	InsertRejections(ctx context.Context, runID string, rejections []model.Rejection) error
	FindByKey(ctx context.Context, key string) (*model.Contact, error)
	EnsureIndexes(ctx context.Context) error
}

type UpsertResult struct {
	Inserted int64
	Updated  int64
}

// contactDocument is a normalized contact keyed by model.Contact.Key, so a
// re-run replaces the previous values instead of duplicating them.
type contactDocument struct {
	Key           string `bson:"key"`
	model.Contact `bson:",inline"`
	RunID         string    `bson:"run_id"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

type rejectionDocument struct {
	model.Rejection `bson:",inline"`
	RunID           string    `bson:"run_id"`
	CreatedAt       time.Time `bson:"created_at"`
}

type mongoContactRepository struct {
	cfg        *config.Config
	contacts   *mongo.Collection
	rejections *mongo.Collection
	now        func() time.Time
}

func NewMongoContactRepository(cfg *config.Config) ContactRepository {
	return newMongoContactRepository(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg)
}

func newMongoContactRepository(db *mongo.Database, cfg *config.Config) *mongoContactRepository {
	return &mongoContactRepository{
		cfg:        cfg,
		contacts:   db.Collection(ContactsCollection),
		rejections: db.Collection(RejectionsCollection),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// withTimeout bounds ctx by timeout unless ctx already expires sooner.
func (r *mongoContactRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.contacts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contact indexes: %w", err)
	}

	_, err = r.rejections.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "row", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create rejection indexes: %w", err)
	}
	return nil
}

func (r *mongoContactRepository) UpsertContacts(ctx context.Context, runID string, contacts []model.Contact) (*UpsertResult, error) {
	if runID == "" {
		return nil, ErrMissingRunID
	}
	if len(contacts) == 0 {
		return &UpsertResult{}, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := r.now()
	writes := make([]mongo.WriteModel, 0, len(contacts))
	for _, c := range contacts {
		doc := contactDocument{Key: c.Key(), Contact: c, RunID: runID, UpdatedAt: now}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"key": doc.Key}).
			SetUpdate(bson.M{
				"$set":         doc,
				"$setOnInsert": bson.M{"created_at": now},
			}).
			SetUpsert(true))
	}

	res, err := r.contacts.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert contacts: %w", err)
	}

	return &UpsertResult{
		Inserted: res.UpsertedCount,
		Updated:  res.MatchedCount,
	}, nil
}

func (r *mongoContactRepository) InsertRejections(ctx context.Context, runID string, rejections []model.Rejection) error {
	if runID == "" {
		return ErrMissingRunID
	}
	if len(rejections) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := r.now()
	docs := make([]any, 0, len(rejections))
	for _, rej := range rejections {
		docs = append(docs, rejectionDocument{Rejection: rej, RunID: runID, CreatedAt: now})
	}

	if _, err := r.rejections.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to insert rejections: %w", err)
	}
	return nil
}

func (r *mongoContactRepository) FindByKey(ctx context.Context, key string) (*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc contactDocument
	err := r.contacts.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return &doc.Contact, nil
}
