package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestCouponDiscountFor(t *testing.T) {
	percent := Coupon{PercentOff: f64(10)}
	assert.Equal(t, 10.0, percent.DiscountFor(100))

	amount := Coupon{AmountOff: f64(25)}
	assert.Equal(t, 25.0, amount.DiscountFor(100))

	// Percent wins when both are stored.
	both := Coupon{PercentOff: f64(50), AmountOff: f64(5)}
	assert.Equal(t, 50.0, both.DiscountFor(100))

	neither := Coupon{}
	assert.Equal(t, 0.0, neither.DiscountFor(100))
}

func TestDiscountActiveAt(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	active := Discount{StartDate: yesterday, EndDate: tomorrow}
	assert.True(t, active.ActiveAt(now))

	ended := Discount{StartDate: yesterday.Add(-24 * time.Hour), EndDate: yesterday}
	assert.False(t, ended.ActiveAt(now))

	upcoming := Discount{StartDate: tomorrow, EndDate: tomorrow.Add(24 * time.Hour)}
	assert.False(t, upcoming.ActiveAt(now))

	// Window bounds are inclusive.
	boundary := Discount{StartDate: now, EndDate: now}
	assert.True(t, boundary.ActiveAt(now))
}

func TestReviewValidate(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		r := Review{Rating: rating}
		assert.NoError(t, r.Validate())
	}
	for _, rating := range []int{0, -1, 6, 100} {
		r := Review{Rating: rating}
		assert.ErrorIs(t, r.Validate(), ErrInvalidRating)
	}
}

func TestOrderTotal(t *testing.T) {
	items := []LineItem{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 1},
	}
	assert.Equal(t, 25.0, Total(items))
	assert.Equal(t, 0.0, Total(nil))
}

func TestRoleMatches(t *testing.T) {
	assert.True(t, RoleMatches("admin", RoleAdmin))
	assert.True(t, RoleMatches("ADMIN", RoleAdmin))
	assert.True(t, RoleMatches("Customer", RoleCustomer, RoleAdmin))
	assert.False(t, RoleMatches("MANAGER", RoleCustomer, RoleAdmin))
	assert.False(t, RoleMatches("", RoleAdmin))
}
