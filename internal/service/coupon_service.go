package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"surq/internal/cache"
	"surq/internal/model"
	"surq/internal/repository"
)

// couponReward is a static allowlist entry for a redeemable code.
type couponReward struct {
	Points      int
	Description string
}

var validCoupons = map[string]couponReward{
	"NEW2025":  {Points: 200, Description: "Welcome bonus"},
	"BONUS100": {Points: 100, Description: "Bonus points"},
	"FIRST50":  {Points: 50, Description: "First use bonus"},
}

// CouponService applies coupon codes at most once per (user, code) pair.
// The duplicate check, the balance credit and the redemption-record insert
// all run inside one storage transaction: two concurrent redemptions of the
// same code by the same user resolve to exactly one success.
type CouponService struct {
	couponRepo   repository.CouponRepo
	userRepo     repository.UserRepo
	tx           repository.TxRunner
	profileCache cache.ProfileCache
}

// NewCouponService creates a new coupon service.
func NewCouponService(couponRepo repository.CouponRepo, userRepo repository.UserRepo, tx repository.TxRunner, profileCache cache.ProfileCache) *CouponService {
	return &CouponService{
		couponRepo:   couponRepo,
		userRepo:     userRepo,
		tx:           tx,
		profileCache: profileCache,
	}
}

// Redeem applies a coupon code to the caller's account.
func (s *CouponService) Redeem(ctx context.Context, ident Identity, code string) (*model.RedeemResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	reward, ok := validCoupons[code]
	if !ok {
		return nil, ErrInvalidCoupon
	}

	var result *model.RedeemResult
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.couponRepo.FindRedemption(ctx, ident.Email, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyRedeemed
		}

		user, err := s.userRepo.GetByEmail(ctx, ident.Email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if user.IsBanned {
			return ErrUserBanned
		}

		if err := s.userRepo.AddPoints(ctx, user.ID, reward.Points); err != nil {
			return err
		}
		now := time.Now()
		if _, err := s.couponRepo.Create(ctx, &model.CouponRedemption{
			UserID:      user.ID,
			UserEmail:   user.Email,
			CouponCode:  code,
			PointsAdded: reward.Points,
			Description: reward.Description,
			UsedAt:      now,
		}); err != nil {
			return err
		}

		result = &model.RedeemResult{
			PointsAdded: reward.Points,
			NewTotal:    user.Points + float64(reward.Points),
			Description: reward.Description,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProfile(ctx, ident.UserID)
	log.Info().Str("email", ident.Email).Str("code", code).Int("points", reward.Points).Msg("coupon redeemed")
	return result, nil
}

// History lists the caller's redemptions, newest first.
func (s *CouponService) History(ctx context.Context, ident Identity) ([]*model.CouponRedemption, error) {
	return s.couponRepo.ListByEmail(ctx, ident.Email)
}

func (s *CouponService) invalidateProfile(ctx context.Context, userID string) {
	if s.profileCache == nil {
		return
	}
	if err := s.profileCache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("profile cache invalidation failed")
	}
}
