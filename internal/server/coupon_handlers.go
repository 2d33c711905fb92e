package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnhKhoa14/bakery/internal/models"
)

type applyCouponRequest struct {
	Code       string  `json:"code" binding:"required"`
	TotalPrice float64 `json:"totalPrice" binding:"gte=0"`
}

// applyCoupon validates and redeems in one store call, then prices the
// discount. newTotal can go negative on a misconfigured amount-off coupon;
// clamping is the caller's business.
func (s *Server) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	coupon, err := s.stores.Coupons.Redeem(c.Request.Context(), req.Code, time.Now())
	if err != nil {
		s.fail(c, err, "Coupon not found", "Failed to apply coupon")
		return
	}

	discountAmount := coupon.DiscountFor(req.TotalPrice)
	c.JSON(http.StatusOK, gin.H{
		"message":        "Coupon applied successfully",
		"discountAmount": discountAmount,
		"newTotal":       req.TotalPrice - discountAmount,
		"coupon":         coupon,
	})
}

func (s *Server) getCoupon(c *gin.Context) {
	coupon, err := s.stores.Coupons.ByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.fail(c, err, "Coupon not found", "Failed to fetch coupon")
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (s *Server) listCoupons(c *gin.Context) {
	coupons, err := s.stores.Coupons.All(c.Request.Context())
	if err != nil {
		s.fail(c, err, "", "Failed to fetch coupons")
		return
	}
	c.JSON(http.StatusOK, coupons)
}

type couponRequest struct {
	Code           string     `json:"code" binding:"required"`
	PercentOff     *float64   `json:"percentOff" binding:"omitempty,gte=1,lte=100"`
	AmountOff      *float64   `json:"amountOff" binding:"omitempty,gte=0"`
	MaxRedemptions *int       `json:"maxRedemptions" binding:"omitempty,gte=1"`
	RedeemBy       *time.Time `json:"redeemBy"`
}

func (s *Server) createCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	coupon := &models.Coupon{
		Code:           req.Code,
		PercentOff:     req.PercentOff,
		AmountOff:      req.AmountOff,
		MaxRedemptions: req.MaxRedemptions,
		RedeemBy:       req.RedeemBy,
	}
	if err := s.stores.Coupons.Create(c.Request.Context(), coupon); err != nil {
		s.fail(c, err, "", "Failed to create coupon")
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (s *Server) updateCoupon(c *gin.Context) {
	var body struct {
		PercentOff     *float64   `json:"percentOff"`
		AmountOff      *float64   `json:"amountOff"`
		MaxRedemptions *int       `json:"maxRedemptions"`
		RedeemBy       *time.Time `json:"redeemBy"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if body.PercentOff != nil {
		fields["percentOff"] = *body.PercentOff
	}
	if body.AmountOff != nil {
		fields["amountOff"] = *body.AmountOff
	}
	if body.MaxRedemptions != nil {
		fields["maxRedemptions"] = *body.MaxRedemptions
	}
	if body.RedeemBy != nil {
		fields["redeemBy"] = *body.RedeemBy
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No updatable fields supplied"})
		return
	}

	coupon, err := s.stores.Coupons.UpdateByCode(c.Request.Context(), c.Param("code"), fields)
	if err != nil {
		s.fail(c, err, "Coupon not found", "Failed to update coupon")
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (s *Server) deleteCoupon(c *gin.Context) {
	if err := s.stores.Coupons.DeleteByCode(c.Request.Context(), c.Param("code")); err != nil {
		s.fail(c, err, "Coupon not found", "Failed to delete coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}
