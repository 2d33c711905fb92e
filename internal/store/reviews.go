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

type reviewStore struct {
	db *database.DB
}

func (s *reviewStore) reviews() *mongo.Collection { return s.db.Collection("reviews") }

func (s *reviewStore) Create(ctx context.Context, r *models.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Likes == nil {
		r.Likes = []primitive.ObjectID{}
	}
	res, err := s.reviews().InsertOne(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *reviewStore) ByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.ReviewView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product": productID, "isDeleted": false}}},
		{{Key: "$lookup", Value: bson.M{
			"from": "users", "localField": "user", "foreignField": "_id", "as": "reviewerDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$reviewerDoc", "preserveNullAndEmptyArrays": true}}},
	}
	cur, err := s.reviews().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	var views []models.ReviewView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return views, nil
}

func (s *reviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.reviews().UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Like adds the user to the likers set; liking twice is a no-op.
func (s *reviewStore) Like(ctx context.Context, reviewID, userID primitive.ObjectID) (*models.Review, error) {
	return s.updateLikes(ctx, reviewID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// Unlike removes the user from the likers set; unliking twice is a no-op.
func (s *reviewStore) Unlike(ctx context.Context, reviewID, userID primitive.ObjectID) (*models.Review, error) {
	return s.updateLikes(ctx, reviewID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (s *reviewStore) updateLikes(ctx context.Context, reviewID primitive.ObjectID, update bson.M) (*models.Review, error) {
	var review models.Review
	err := s.reviews().FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID, "isDeleted": false},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review likes: %w", err)
	}
	return &review, nil
}
