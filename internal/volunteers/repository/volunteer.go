package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	volunteerserrors "zinbook/internal/volunteers/errors"
	"zinbook/pkg/config"
	"zinbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Volunteers"
)

type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *model.Volunteer) error
	FindByID(ctx context.Context, id string) (*model.Volunteer, error)
	FindByEmail(ctx context.Context, email string) (*model.Volunteer, error)
	FindSelectable(ctx context.Context, category model.SupportCategory, language model.Language, limit int, offset int64) ([]*model.Volunteer, error)
	CountSelectable(ctx context.Context, category model.SupportCategory, language model.Language) (int64, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Volunteer, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, volunteer *model.Volunteer) (*mongo.UpdateResult, error)
	SetFlag(ctx context.Context, id string, field string, value bool) error
}

type mongoVolunteerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVolunteerRepository(cfg *config.Config) VolunteerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVolunteerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoVolunteerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoVolunteerRepository) Create(ctx context.Context, volunteer *model.Volunteer) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	volunteer.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, volunteer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return volunteerserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create volunteer: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		volunteer.ID = oid.Hex()
	}
	return nil
}

func (r *mongoVolunteerRepository) FindByID(ctx context.Context, id string) (*model.Volunteer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", volunteerserrors.ErrInvalidID, id)
	}

	var volunteer model.Volunteer
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&volunteer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, volunteerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find volunteer: %w", err)
	}

	return &volunteer, nil
}

func (r *mongoVolunteerRepository) FindByEmail(ctx context.Context, email string) (*model.Volunteer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var volunteer model.Volunteer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&volunteer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, volunteerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find volunteer by email: %w", err)
	}

	return &volunteer, nil
}

func (r *mongoVolunteerRepository) FindSelectable(ctx context.Context, category model.SupportCategory, language model.Language, limit int, offset int64) ([]*model.Volunteer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := selectableFilter(category, language)

	opts := options.Find().
		SetSort(bson.D{{Key: "full_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find selectable volunteers: %w", err)
	}
	defer cursor.Close(ctx)

	var volunteers []*model.Volunteer
	if err = cursor.All(ctx, &volunteers); err != nil {
		return nil, fmt.Errorf("failed to decode volunteers: %w", err)
	}

	return volunteers, nil
}

func (r *mongoVolunteerRepository) CountSelectable(ctx context.Context, category model.SupportCategory, language model.Language) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, selectableFilter(category, language))
	if err != nil {
		return 0, fmt.Errorf("failed to count selectable volunteers: %w", err)
	}
	return count, nil
}

// selectableFilter restricts results to volunteers clients may book.
func selectableFilter(category model.SupportCategory, language model.Language) bson.M {
	filter := bson.M{
		"is_verified": true,
		"is_active":   true,
	}
	if category != "" {
		filter["support_categories"] = category
	}
	if language != "" {
		filter["languages"] = language
	}
	return filter
}

func (r *mongoVolunteerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Volunteer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find volunteers: %w", err)
	}
	defer cursor.Close(ctx)

	var volunteers []*model.Volunteer
	if err = cursor.All(ctx, &volunteers); err != nil {
		return nil, fmt.Errorf("failed to decode volunteers: %w", err)
	}

	return volunteers, nil
}

func (r *mongoVolunteerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count volunteers: %w", err)
	}
	return count, nil
}

func (r *mongoVolunteerRepository) Update(ctx context.Context, id string, volunteer *model.Volunteer) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", volunteerserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"full_name":          volunteer.FullName,
			"phone":              volunteer.Phone,
			"bio":                volunteer.Bio,
			"support_categories": volunteer.SupportCategories,
			"languages":          volunteer.Languages,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, volunteerserrors.ErrNotFound
	}

	return result, nil
}

// SetFlag flips one of the admin-controlled booleans (is_verified,
// is_active) without touching the profile fields.
func (r *mongoVolunteerRepository) SetFlag(ctx context.Context, id string, field string, value bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", volunteerserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return fmt.Errorf("failed to update volunteer %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return volunteerserrors.ErrNotFound
	}

	return nil
}
