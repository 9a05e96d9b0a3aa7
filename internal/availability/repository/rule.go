package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityerrors "zinbook/internal/availability/errors"
	"zinbook/pkg/config"
	"zinbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability_rules"
)

type RuleRepository interface {
	Create(ctx context.Context, rule *model.AvailabilityRule) error
	FindByID(ctx context.Context, id string) (*model.AvailabilityRule, error)
	FindByVolunteer(ctx context.Context, volunteerID string) ([]*model.AvailabilityRule, error)
	FindByVolunteerAndDay(ctx context.Context, volunteerID string, dayOfWeek int, onlyAvailable bool) ([]*model.AvailabilityRule, error)
	SetAvailable(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type mongoRuleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRuleRepository(cfg *config.Config) RuleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRuleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRuleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRuleRepository) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rule.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to create availability rule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRuleRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	var rule model.AvailabilityRule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability rule: %w", err)
	}

	return &rule, nil
}

func (r *mongoRuleRepository) FindByVolunteer(ctx context.Context, volunteerID string) ([]*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"volunteer_id": volunteerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*model.AvailabilityRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode availability rules: %w", err)
	}

	return rules, nil
}

func (r *mongoRuleRepository) FindByVolunteerAndDay(ctx context.Context, volunteerID string, dayOfWeek int, onlyAvailable bool) ([]*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"volunteer_id": volunteerID,
		"day_of_week":  dayOfWeek,
	}
	if onlyAvailable {
		filter["is_available"] = true
		filter["is_recurring"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*model.AvailabilityRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode availability rules: %w", err)
	}

	return rules, nil
}

func (r *mongoRuleRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"is_available": available}},
	)
	if err != nil {
		return fmt.Errorf("failed to update availability rule: %w", err)
	}
	if result.MatchedCount == 0 {
		return availabilityerrors.ErrNotFound
	}

	return nil
}

func (r *mongoRuleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", availabilityerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete availability rule: %w", err)
	}
	if result.DeletedCount == 0 {
		return availabilityerrors.ErrNotFound
	}

	return nil
}
