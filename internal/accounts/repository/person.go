package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountserrors "maitred/internal/accounts/errors"
	"maitred/pkg/config"
	"maitred/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Persons"
)

type mongoPersonRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type PersonRepository interface {
	Create(ctx context.Context, person *model.Person) error
	FindByID(ctx context.Context, id string) (*model.Person, error)
	FindByUsername(ctx context.Context, username string) (*model.Person, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Person, error)
	FindByWork(ctx context.Context, work string, limit int, offset int64) ([]*model.Person, error)
	Count(ctx context.Context) (int64, error)
	CountByWork(ctx context.Context, work string) (int64, error)
	Update(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoPersonRepository(cfg *config.Config) PersonRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPersonRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPersonRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPersonRepository) Create(ctx context.Context, person *model.Person) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	person.CreatedAt = now
	person.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, person)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return accountserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create person: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		person.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPersonRepository) FindByID(ctx context.Context, id string) (*model.Person, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", accountserrors.ErrInvalidID, id)
	}

	var person model.Person
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&person)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}

	return &person, nil
}

func (r *mongoPersonRepository) FindByUsername(ctx context.Context, username string) (*model.Person, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var person model.Person
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&person)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find person by username: %w", err)
	}

	return &person, nil
}

func (r *mongoPersonRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Person, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoPersonRepository) FindByWork(ctx context.Context, work string, limit int, offset int64) ([]*model.Person, error) {
	return r.find(ctx, bson.M{"work": work}, limit, offset)
}

func (r *mongoPersonRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Person, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find persons: %w", err)
	}
	defer cursor.Close(ctx)

	var persons []*model.Person
	if err = cursor.All(ctx, &persons); err != nil {
		return nil, fmt.Errorf("failed to decode persons: %w", err)
	}

	return persons, nil
}

func (r *mongoPersonRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count persons: %w", err)
	}
	return count, nil
}

func (r *mongoPersonRepository) CountByWork(ctx context.Context, work string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"work": work})
	if err != nil {
		return 0, fmt.Errorf("failed to count persons by work: %w", err)
	}
	return count, nil
}

// Update applies the given field set; the service decides which fields
// change.
func (r *mongoPersonRepository) Update(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", accountserrors.ErrInvalidID, id)
	}

	fields["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, accountserrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, accountserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoPersonRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", accountserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	if result.DeletedCount == 0 {
		return accountserrors.ErrNotFound
	}

	return nil
}
