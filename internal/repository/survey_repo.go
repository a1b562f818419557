package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surq/internal/model"
)

// SurveyRepo handles MongoDB operations for surveys.
type SurveyRepo interface {
	Create(ctx context.Context, survey *model.Survey) (string, error)
	GetByID(ctx context.Context, id string) (*model.Survey, error)
	ListPublished(ctx context.Context) ([]*model.Survey, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*model.Survey, error)
	ListExpired(ctx context.Context) ([]*model.Survey, error)
	Update(ctx context.Context, survey *model.Survey) error
	Delete(ctx context.Context, id string) error
	IncrementResponseCount(ctx context.Context, id string) error
	SetExpiry(ctx context.Context, id string, expiresAt, lastExtendedAt time.Time) error
	MarkExpired(ctx context.Context, id string, now time.Time) error
	Restore(ctx context.Context, id string, newExpiry, now time.Time) error
	// ExtendForCreator pushes expires_at forward on every published survey
	// owned by the creator.
	ExtendForCreator(ctx context.Context, creatorID string, newExpiry, now time.Time) (int, error)
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new survey repository.
func NewSurveyRepo(db *mongo.Database) SurveyRepo {
	return &surveyRepo{collection: db.Collection("surveys")}
}

func (r *surveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	if survey.ID == "" {
		survey.ID = uuid.New().String()
	}
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = survey.CreatedAt

	if _, err := r.collection.InsertOne(ctx, survey); err != nil {
		return "", err
	}
	return survey.ID, nil
}

func (r *surveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepo) ListPublished(ctx context.Context) ([]*model.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_published": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []*model.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) ListByCreator(ctx context.Context, creatorID string) ([]*model.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"creator_id": creatorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []*model.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) ListExpired(ctx context.Context) ([]*model.Survey, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"expired_at": bson.M{"$ne": nil}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []*model.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	survey.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": survey.ID}, survey)
	return err
}

func (r *surveyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *surveyRepo) IncrementResponseCount(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"response_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *surveyRepo) SetExpiry(ctx context.Context, id string, expiresAt, lastExtendedAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"expires_at": expiresAt, "last_extended_at": lastExtendedAt},
	})
	return err
}

func (r *surveyRepo) MarkExpired(ctx context.Context, id string, now time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_published": false, "expired_at": now, "updated_at": now},
	})
	return err
}

func (r *surveyRepo) Restore(ctx context.Context, id string, newExpiry, now time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"is_published":     true,
			"expires_at":       newExpiry,
			"last_extended_at": now,
			"expired_at":       nil,
			"updated_at":       now,
		},
	})
	return err
}

func (r *surveyRepo) ExtendForCreator(ctx context.Context, creatorID string, newExpiry, now time.Time) (int, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"creator_id": creatorID, "is_published": true},
		bson.M{"$set": bson.M{
			"expires_at":       newExpiry,
			"last_extended_at": now,
			"updated_at":       now,
		}},
	)
	if err != nil {
		return 0, err
	}
	return int(result.ModifiedCount), nil
}
