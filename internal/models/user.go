package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username                  string             `bson:"username" json:"username"`
	Email                     string             `bson:"email" json:"email"`
	Password                  string             `bson:"password" json:"-"`
	Phone                     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	FullName                  string             `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Address                   string             `bson:"address,omitempty" json:"address,omitempty"`
	Role                      primitive.ObjectID `bson:"role" json:"role"`
	VerifyCode                string             `bson:"verifyCode,omitempty" json:"-"`
	ExpiredCode               *time.Time         `bson:"expiredCode,omitempty" json:"-"`
	IsVerified                bool               `bson:"isVerified" json:"isVerified"`
	ForgotPasswordToken       string             `bson:"forgotPasswordToken,omitempty" json:"-"`
	ForgotPasswordTokenExpiry *time.Time         `bson:"forgotPasswordTokenExpiry,omitempty" json:"-"`
	IsActive                  bool               `bson:"isActive" json:"isActive"`
	IsDeleted                 bool               `bson:"isDeleted" json:"-"`
	CreatedAt                 time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                 time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the shape embedded in composed views (orders, reviews).
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email" json:"email"`
}
