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

// NotificationRepo handles MongoDB operations for in-app notifications.
type NotificationRepo interface {
	Create(ctx context.Context, notification *model.Notification) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepo struct {
	collection *mongo.Collection
}

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepo{collection: db.Collection("notifications")}
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) (string, error) {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return "", err
	}
	return notification.ID, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []*model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
