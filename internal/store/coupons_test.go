package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AnhKhoa14/bakery/internal/models"
)

func TestRedeemFailure(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	capOne := 1
	capTen := 10

	t.Run("expired", func(t *testing.T) {
		err := redeemFailure(&models.Coupon{RedeemBy: &past}, now)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("exhausted", func(t *testing.T) {
		err := redeemFailure(&models.Coupon{MaxRedemptions: &capOne, TimesRedeemed: 1}, now)
		assert.ErrorIs(t, err, ErrCouponExhausted)
	})

	t.Run("expiry checked before cap", func(t *testing.T) {
		err := redeemFailure(&models.Coupon{RedeemBy: &past, MaxRedemptions: &capOne, TimesRedeemed: 1}, now)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	// A redeemable coupon classifies as nil: the conditional update lost a
	// race and should be retried, not reported as a terminal failure.
	t.Run("redeemable means lost race", func(t *testing.T) {
		assert.NoError(t, redeemFailure(&models.Coupon{}, now))
		assert.NoError(t, redeemFailure(&models.Coupon{RedeemBy: &future}, now))
		assert.NoError(t, redeemFailure(&models.Coupon{MaxRedemptions: &capTen, TimesRedeemed: 3}, now))
	})
}
