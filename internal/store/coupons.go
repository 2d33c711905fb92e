package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/models"
)

type couponStore struct {
	db *database.DB
}

func (s *couponStore) coupons() *mongo.Collection { return s.db.Collection("coupons") }

// Redeem is the correctness-critical path: the expiry/cap check and the
// counter increment must be one atomic operation, or concurrent redemptions
// near the cap can push timesRedeemed past maxRedemptions. A single
// conditional FindOneAndUpdate makes the increment impossible once the cap
// is hit. When the update matches nothing, the coupon is re-read to tell the
// caller why; a re-read that shows a redeemable coupon means the state moved
// between the two operations, and the update is retried once before giving
// up as exhausted.
func (s *couponStore) Redeem(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	for attempt := 0; attempt < 2; attempt++ {
		coupon, err := s.tryRedeem(ctx, code, now)
		if err == nil {
			return coupon, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to redeem coupon: %w", err)
		}

		existing, lookupErr := s.ByCode(ctx, code)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if reason := redeemFailure(existing, now); reason != nil {
			return nil, reason
		}
	}
	return nil, ErrCouponExhausted
}

func (s *couponStore) tryRedeem(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	filter := bson.M{
		"code":      code,
		"isDeleted": bson.M{"$ne": true},
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"redeemBy": bson.M{"$exists": false}},
				bson.M{"redeemBy": nil},
				bson.M{"redeemBy": bson.M{"$gte": now}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"maxRedemptions": bson.M{"$exists": false}},
				bson.M{"maxRedemptions": nil},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$timesRedeemed", "$maxRedemptions"}}},
			}},
		},
	}

	var coupon models.Coupon
	err := s.coupons().FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"timesRedeemed": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&coupon)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// redeemFailure explains why a conditional redemption matched nothing, given
// a fresh read of the coupon. nil means the coupon looks redeemable now, so
// the miss was a lost race rather than a terminal state.
func redeemFailure(c *models.Coupon, now time.Time) error {
	if c.RedeemBy != nil && c.RedeemBy.Before(now) {
		return ErrCouponExpired
	}
	if c.MaxRedemptions != nil && c.TimesRedeemed >= *c.MaxRedemptions {
		return ErrCouponExhausted
	}
	return nil
}

func (s *couponStore) ByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.coupons().FindOne(ctx, bson.M{"code": code, "isDeleted": bson.M{"$ne": true}}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return &coupon, nil
}

func (s *couponStore) All(ctx context.Context) ([]models.Coupon, error) {
	cur, err := s.coupons().Find(ctx, bson.M{"isDeleted": bson.M{"$ne": true}})
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	var coupons []models.Coupon
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

func (s *couponStore) Create(ctx context.Context, c *models.Coupon) error {
	existing := s.coupons().FindOne(ctx, bson.M{"code": c.Code})
	if existing.Err() == nil {
		return ErrDuplicate
	}
	if !errors.Is(existing.Err(), mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing coupon: %w", existing.Err())
	}

	c.Created = time.Now()
	res, err := s.coupons().InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to insert coupon: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *couponStore) UpdateByCode(ctx context.Context, code string, fields map[string]interface{}) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.coupons().FindOneAndUpdate(ctx,
		bson.M{"code": code, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return &coupon, nil
}

func (s *couponStore) DeleteByCode(ctx context.Context, code string) error {
	res, err := s.coupons().UpdateOne(ctx,
		bson.M{"code": code, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
