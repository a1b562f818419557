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

// CouponRepo handles MongoDB operations for coupon redemption records.
// FindRedemption and Create are meant to run inside one TxRunner
// transaction; the (user_email, coupon_code) pair must stay unique.
type CouponRepo interface {
	FindRedemption(ctx context.Context, email, code string) (*model.CouponRedemption, error)
	Create(ctx context.Context, redemption *model.CouponRedemption) (string, error)
	ListByEmail(ctx context.Context, email string) ([]*model.CouponRedemption, error)
}

type couponRepo struct {
	collection *mongo.Collection
}

// NewCouponRepo creates a new coupon redemption repository.
func NewCouponRepo(db *mongo.Database) CouponRepo {
	return &couponRepo{collection: db.Collection("coupon_redemptions")}
}

func (r *couponRepo) FindRedemption(ctx context.Context, email, code string) (*model.CouponRedemption, error) {
	var redemption model.CouponRedemption
	err := r.collection.FindOne(ctx, bson.M{"user_email": email, "coupon_code": code}).Decode(&redemption)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *couponRepo) Create(ctx context.Context, redemption *model.CouponRedemption) (string, error) {
	if redemption.ID == "" {
		redemption.ID = uuid.New().String()
	}
	redemption.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, redemption); err != nil {
		return "", err
	}
	return redemption.ID, nil
}

func (r *couponRepo) ListByEmail(ctx context.Context, email string) ([]*model.CouponRedemption, error) {
	opts := options.Find().SetSort(bson.D{{Key: "used_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var redemptions []*model.CouponRedemption
	if err := cursor.All(ctx, &redemptions); err != nil {
		return nil, err
	}
	return redemptions, nil
}
