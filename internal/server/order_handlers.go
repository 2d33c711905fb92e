package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnhKhoa14/bakery/internal/models"
)

type orderLineRequest struct {
	ProductID  string  `json:"productId" binding:"required"`
	DiscountID string  `json:"discountId"`
	Quantity   int     `json:"quantity" binding:"required,gte=1"`
	Price      float64 `json:"price" binding:"gte=0"`
}

type createOrderRequest struct {
	UserID          string             `json:"userId" binding:"required"`
	PaymentMethodID string             `json:"paymentMethodId" binding:"required"`
	DiscountID      string             `json:"discountId"`
	Items           []orderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// createOrder totals the caller-supplied line items and persists the order
// followed by its details. Prices are taken as given, not re-read from the
// catalog. The header and detail inserts are separate writes; if the second
// fails the order exists without line items and this returns 500.
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, ok := objectID(c, req.UserID)
	if !ok {
		return
	}
	paymentMethodID, ok := objectID(c, req.PaymentMethodID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := s.stores.Users.FindByID(ctx, userID); err != nil {
		s.fail(c, err, "User not found", "Failed to create order")
		return
	}
	if _, err := s.stores.Orders.PaymentMethodByID(ctx, paymentMethodID); err != nil {
		s.fail(c, err, "Payment method not found", "Failed to create order")
		return
	}
	pending, err := s.stores.Orders.StatusByName(ctx, models.StatusPending)
	if err != nil {
		s.fail(c, err, "Order status not found", "Failed to create order")
		return
	}

	items := make([]models.LineItem, 0, len(req.Items))
	for _, line := range req.Items {
		productID, ok := objectID(c, line.ProductID)
		if !ok {
			return
		}
		item := models.LineItem{
			Product:  productID,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
		if line.DiscountID != "" {
			discountID, ok := objectID(c, line.DiscountID)
			if !ok {
				return
			}
			item.Discount = &discountID
		}
		items = append(items, item)
	}

	order := &models.Order{
		User:          userID,
		TotalPrice:    models.Total(items),
		OrderStatus:   pending.ID,
		PaymentMethod: paymentMethodID,
	}
	if req.DiscountID != "" {
		discountID, ok := objectID(c, req.DiscountID)
		if !ok {
			return
		}
		order.Discount = &discountID
	}

	details, err := s.stores.Orders.Create(ctx, order, items)
	if err != nil {
		s.fail(c, err, "", "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order, "items": details})
}

func (s *Server) ordersByUser(c *gin.Context) {
	userID, ok := objectID(c, c.Param("userId"))
	if !ok {
		return
	}
	orders, err := s.stores.Orders.ByUser(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, err, "", "Failed to get orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.stores.Orders.All(c.Request.Context())
	if err != nil {
		s.fail(c, err, "", "Failed to get orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, ok := objectID(c, c.Param("orderId"))
	if !ok {
		return
	}
	order, err := s.stores.Orders.ByID(c.Request.Context(), orderID)
	if err != nil {
		s.fail(c, err, "Order not found", "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	StatusID string `json:"statusId" binding:"required"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	orderID, ok := objectID(c, c.Param("orderId"))
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	statusID, ok := objectID(c, req.StatusID)
	if !ok {
		return
	}

	order, err := s.stores.Orders.UpdateStatus(c.Request.Context(), orderID, statusID)
	if err != nil {
		s.fail(c, err, "Order not found", "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// cancelOrder soft-deletes. Cancelling an already-cancelled order is 404:
// cancellation is a one-way gate, not an idempotent operation.
func (s *Server) cancelOrder(c *gin.Context) {
	orderID, ok := objectID(c, c.Param("orderId"))
	if !ok {
		return
	}
	if err := s.stores.Orders.Cancel(c.Request.Context(), orderID); err != nil {
		s.fail(c, err, "Order not found", "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully"})
}

func (s *Server) trackOrder(c *gin.Context) {
	orderID, ok := objectID(c, c.Param("orderId"))
	if !ok {
		return
	}
	tracked, err := s.stores.Orders.Track(c.Request.Context(), orderID)
	if err != nil {
		s.fail(c, err, "Order not found", "Failed to track order")
		return
	}
	c.JSON(http.StatusOK, tracked)
}

func (s *Server) orderStatistics(c *gin.Context) {
	var start, end *time.Time
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid startDate"})
			return
		}
		start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid endDate"})
			return
		}
		end = &t
	}

	stats, err := s.stores.Orders.Statistics(c.Request.Context(), start, end)
	if err != nil {
		s.fail(c, err, "", "Failed to get order statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
