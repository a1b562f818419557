package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"surq/internal/model"
)

// UserRepo handles MongoDB operations for users. All counter mutations are
// storage-side $inc updates; callers must never read-modify-write
// surveys_answered, surveys_created or points in application memory.
type UserRepo interface {
	Create(ctx context.Context, user *model.User) (string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetBanned(ctx context.Context, id string, banned bool) error
	// ApplyAnswerCredit increments surveys_answered by 1 and points by the
	// given amount in a single atomic document update.
	ApplyAnswerCredit(ctx context.Context, id string, points float64) error
	IncrementAnswered(ctx context.Context, id string, delta int) error
	IncrementCreated(ctx context.Context, id string) error
	AddPoints(ctx context.Context, id string, points int) error
	TouchSurveyExtended(ctx context.Context, id string, at time.Time) error
}

type userRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{collection: db.Collection("users")}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) SetBanned(ctx context.Context, id string, banned bool) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_banned": banned, "updated_at": time.Now()},
	})
	return err
}

func (r *userRepo) ApplyAnswerCredit(ctx context.Context, id string, points float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"surveys_answered": 1, "points": points},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *userRepo) IncrementAnswered(ctx context.Context, id string, delta int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"surveys_answered": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *userRepo) IncrementCreated(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"surveys_created": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *userRepo) AddPoints(ctx context.Context, id string, points int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"points": points},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *userRepo) TouchSurveyExtended(ctx context.Context, id string, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_survey_extended_at": at, "updated_at": at},
	})
	return err
}
