package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/models"
)

type discountStore struct {
	db *database.DB
}

func (s *discountStore) discounts() *mongo.Collection { return s.db.Collection("discounts") }

func (s *discountStore) withCoupon(ctx context.Context, match bson.M) ([]models.DiscountView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "coupons",
			"localField":   "coupon",
			"foreignField": "_id",
			"as":           "couponDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$couponDoc", "preserveNullAndEmptyArrays": true}}},
	}
	cur, err := s.discounts().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}
	var views []models.DiscountView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode discounts: %w", err)
	}
	return views, nil
}

// Active returns discounts whose window contains now, coupon expanded.
func (s *discountStore) Active(ctx context.Context, now time.Time) ([]models.DiscountView, error) {
	return s.withCoupon(ctx, bson.M{
		"isDeleted": bson.M{"$ne": true},
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	})
}

func (s *discountStore) All(ctx context.Context) ([]models.DiscountView, error) {
	return s.withCoupon(ctx, bson.M{"isDeleted": bson.M{"$ne": true}})
}

func (s *discountStore) Create(ctx context.Context, d *models.Discount) error {
	res, err := s.discounts().InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("failed to insert discount: %w", err)
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *discountStore) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.DiscountView, error) {
	res, err := s.discounts().UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": fields},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update discount: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	views, err := s.withCoupon(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (s *discountStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	var discount models.Discount
	err := s.discounts().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isDeleted": true}},
	).Decode(&discount)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	return nil
}
