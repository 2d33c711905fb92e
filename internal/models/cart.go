package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart may exist without a user: anonymous carts get one on first add-to-cart.
type Cart struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	IsDeleted bool                `bson:"isDeleted" json:"-"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Cart      primitive.ObjectID `bson:"cart" json:"cart"`
	Product   primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Note      string             `bson:"note" json:"note"`
	IsChecked bool               `bson:"isChecked" json:"isChecked"`
	IsDeleted bool               `bson:"isDeleted" json:"-"`
}

// CartItemView is a cart item with its product summary joined in.
type CartItemView struct {
	ID        primitive.ObjectID `json:"id"`
	Product   ProductSummary     `json:"product"`
	Quantity  int                `json:"quantity"`
	Price     float64            `json:"price"`
	Note      string             `json:"note"`
	IsChecked bool               `json:"isChecked"`
}

type CartView struct {
	CartID primitive.ObjectID  `json:"cartId"`
	User   *primitive.ObjectID `json:"user,omitempty"`
	Items  []CartItemView      `json:"items"`
}
