package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discount is a promotion window around a coupon code.
type Discount struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Coupon    primitive.ObjectID `bson:"coupon" json:"coupon"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	IsDeleted bool               `bson:"isDeleted" json:"-"`
}

// ActiveAt reports whether now falls inside the discount window, inclusive.
func (d *Discount) ActiveAt(now time.Time) bool {
	return !now.Before(d.StartDate) && !now.After(d.EndDate)
}

// DiscountView carries the linked coupon for display.
type DiscountView struct {
	Discount `bson:",inline"`
	CouponDoc *Coupon `bson:"couponDoc,omitempty" json:"couponDetail,omitempty"`
}
