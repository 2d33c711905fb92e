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

type userStore struct {
	db *database.DB
}

func (s *userStore) users() *mongo.Collection { return s.db.Collection("users") }
func (s *userStore) roles() *mongo.Collection { return s.db.Collection("roles") }

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	existing := s.users().FindOne(ctx, bson.M{"email": user.Email})
	if existing.Err() == nil {
		return ErrDuplicate
	}
	if !errors.Is(existing.Err(), mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing user: %w", existing.Err())
	}

	now := time.Now()
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := s.users().InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *userStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email, "isDeleted": bson.M{"$ne": true}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (s *userStore) SetVerifyCode(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	res, err := s.users().UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"verifyCode":  code,
		"expiredCode": expiry,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set verify code: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified flips isVerified when the supplied code matches and has not
// lapsed, clearing the one-time code.
func (s *userStore) MarkVerified(ctx context.Context, id primitive.ObjectID, code string) error {
	res, err := s.users().UpdateOne(ctx,
		bson.M{
			"_id":         id,
			"verifyCode":  code,
			"expiredCode": bson.M{"$gte": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"isVerified": true, "updatedAt": time.Now()},
			"$unset": bson.M{"verifyCode": "", "expiredCode": ""},
		})
	if err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) SetResetToken(ctx context.Context, email, token string, expiry time.Time) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	_, err = s.users().UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"forgotPasswordToken":       token,
		"forgotPasswordTokenExpiry": expiry,
		"updatedAt":                 time.Now(),
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to set reset token: %w", err)
	}
	return user, nil
}

// ResetPassword swaps the hash for the user holding a live reset token and
// burns the token.
func (s *userStore) ResetPassword(ctx context.Context, token, passwordHash string) error {
	res, err := s.users().UpdateOne(ctx,
		bson.M{
			"forgotPasswordToken":       token,
			"forgotPasswordTokenExpiry": bson.M{"$gte": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now()},
			"$unset": bson.M{"forgotPasswordToken": "", "forgotPasswordTokenExpiry": ""},
		})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) RoleByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	var role models.Role
	err := s.roles().FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return &role, nil
}

func (s *userStore) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.roles().FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find role by name: %w", err)
	}
	return &role, nil
}
