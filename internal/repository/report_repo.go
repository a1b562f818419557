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

// ReportRepo handles MongoDB operations for moderation reports.
type ReportRepo interface {
	Create(ctx context.Context, report *model.Report) (string, error)
	GetByID(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context) ([]*model.Report, error)
	Update(ctx context.Context, report *model.Report) error
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository.
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{collection: db.Collection("reports")}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) (string, error) {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt

	if _, err := r.collection.InsertOne(ctx, report); err != nil {
		return "", err
	}
	return report.ID, nil
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context) ([]*model.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*model.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) Update(ctx context.Context, report *model.Report) error {
	report.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report)
	return err
}
