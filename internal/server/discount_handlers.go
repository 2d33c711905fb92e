package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnhKhoa14/bakery/internal/models"
)

func (s *Server) listDiscounts(c *gin.Context) {
	discounts, err := s.stores.Discounts.All(c.Request.Context())
	if err != nil {
		s.fail(c, err, "", "Failed to fetch discounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All discounts fetched successfully", "discounts": discounts})
}

// activeDiscounts returns discounts whose window contains the current time,
// each carrying its coupon for display.
func (s *Server) activeDiscounts(c *gin.Context) {
	discounts, err := s.stores.Discounts.Active(c.Request.Context(), time.Now())
	if err != nil {
		s.fail(c, err, "", "Failed to fetch discounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discounts fetched successfully", "discounts": discounts})
}

type discountRequest struct {
	Code      string    `json:"code" binding:"required"`
	Coupon    string    `json:"coupon" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

func (s *Server) createDiscount(c *gin.Context) {
	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	couponID, ok := objectID(c, req.Coupon)
	if !ok {
		return
	}

	discount := &models.Discount{
		Code:      req.Code,
		Coupon:    couponID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.stores.Discounts.Create(c.Request.Context(), discount); err != nil {
		s.fail(c, err, "", "Failed to create discount")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Discount created successfully", "discount": discount})
}

func (s *Server) updateDiscount(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var body struct {
		Code      *string    `json:"code"`
		Coupon    *string    `json:"coupon"`
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if body.Code != nil {
		fields["code"] = *body.Code
	}
	if body.Coupon != nil {
		couponID, ok := objectID(c, *body.Coupon)
		if !ok {
			return
		}
		fields["coupon"] = couponID
	}
	if body.StartDate != nil {
		fields["startDate"] = *body.StartDate
	}
	if body.EndDate != nil {
		fields["endDate"] = *body.EndDate
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No updatable fields supplied"})
		return
	}

	discount, err := s.stores.Discounts.Update(c.Request.Context(), id, fields)
	if err != nil {
		s.fail(c, err, "Discount not found", "Failed to update discount")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discount updated successfully", "discount": discount})
}

func (s *Server) deleteDiscount(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := s.stores.Discounts.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Discount not found", "Failed to delete discount")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discount deleted successfully"})
}
