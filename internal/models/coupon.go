package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a redemption-limited, time-boxed discount code. PercentOff and
// AmountOff can both be stored; PercentOff wins when applying.
type Coupon struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Created        time.Time          `bson:"created" json:"created"`
	RedeemBy       *time.Time         `bson:"redeemBy,omitempty" json:"redeemBy,omitempty"`
	MaxRedemptions *int               `bson:"maxRedemptions,omitempty" json:"maxRedemptions,omitempty"`
	TimesRedeemed  int                `bson:"timesRedeemed" json:"timesRedeemed"`
	PercentOff     *float64           `bson:"percentOff,omitempty" json:"percentOff,omitempty"`
	AmountOff      *float64           `bson:"amountOff,omitempty" json:"amountOff,omitempty"`
	IsDeleted      bool               `bson:"isDeleted" json:"-"`
}

// DiscountFor computes the amount taken off total. Percent-off takes
// precedence over amount-off; a coupon with neither discounts nothing.
func (c *Coupon) DiscountFor(total float64) float64 {
	if c.PercentOff != nil {
		return total * *c.PercentOff / 100
	}
	if c.AmountOff != nil {
		return *c.AmountOff
	}
	return 0
}
