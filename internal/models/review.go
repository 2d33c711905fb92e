package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Review struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Product   primitive.ObjectID   `bson:"product" json:"product"`
	Rating    int                  `bson:"rating" json:"rating"`
	Comment   string               `bson:"comment,omitempty" json:"comment,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	IsDeleted bool                 `bson:"isDeleted" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Validate enforces the rating bounds. Handlers rely on this rather than
// duplicating the check.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// ReviewView carries the reviewer name for product review listings.
type ReviewView struct {
	Review   `bson:",inline"`
	Reviewer *UserSummary `bson:"reviewerDoc,omitempty" json:"reviewer,omitempty"`
}
