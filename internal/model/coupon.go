package model

import "time"

// CouponRedemption is the durable artifact preventing a coupon code from
// being applied twice by the same user. Immutable once created; uniqueness
// of (user_email, coupon_code) is the sole double-redemption guard.
type CouponRedemption struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	UserID      string    `json:"userId" bson:"user_id"`
	UserEmail   string    `json:"userEmail" bson:"user_email"`
	CouponCode  string    `json:"couponCode" bson:"coupon_code"`
	PointsAdded int       `json:"pointsAdded" bson:"points_added"`
	Description string    `json:"description" bson:"description"`
	UsedAt      time.Time `json:"usedAt" bson:"used_at"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// RedeemResult is returned to the caller on a successful redemption.
type RedeemResult struct {
	PointsAdded int     `json:"pointsAdded"`
	NewTotal    float64 `json:"newTotal"`
	Description string  `json:"description"`
}
