package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"surq/internal/model"
)

// ResponseRepo handles MongoDB operations for response-tracking records.
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) (string, error)
	GetBySurveyAndUser(ctx context.Context, surveyID, userID string) (*model.Response, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error)
	// RecordOpen refreshes last_opened_at and increments open_count
	// atomically; safe to call any number of times.
	RecordOpen(ctx context.Context, id string, openedAt time.Time) error
	// Complete writes completed_at and the duration only if the record is
	// not yet completed. Returns false when another completion already won,
	// which is the storage-level replay guard.
	Complete(ctx context.Context, id string, completedAt time.Time, durationMin int) (bool, error)
	FlagReported(ctx context.Context, surveyID, userID string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository.
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{collection: db.Collection("responses")}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	response.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, response); err != nil {
		return "", err
	}
	return response.ID, nil
}

func (r *responseRepo) GetBySurveyAndUser(ctx context.Context, surveyID, userID string) (*model.Response, error) {
	var response model.Response
	err := r.collection.FindOne(ctx, bson.M{"survey_id": surveyID, "user_id": userID}).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepo) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"survey_id": surveyID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) RecordOpen(ctx context.Context, id string, openedAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_opened_at": openedAt},
		"$inc": bson.M{"open_count": 1},
	})
	return err
}

func (r *responseRepo) Complete(ctx context.Context, id string, completedAt time.Time, durationMin int) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "completed_at": nil},
		bson.M{"$set": bson.M{
			"completed_at":               completedAt,
			"estimated_duration_minutes": durationMin,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *responseRepo) FlagReported(ctx context.Context, surveyID, userID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"survey_id": surveyID, "user_id": userID},
		bson.M{"$set": bson.M{"is_reported": true, "penalty_applied": true}},
	)
	return err
}
