package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/models"
)

func (s *Server) getCart(c *gin.Context) {
	userID, ok := objectID(c, c.Param("userId"))
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cart, err := s.stores.Carts.CartByUser(ctx, userID)
	if err != nil {
		s.fail(c, err, "Cart not found", "Error fetching cart")
		return
	}

	items, err := s.stores.Carts.Items(ctx, cart.ID)
	if err != nil {
		s.fail(c, err, "", "Error fetching cart")
		return
	}

	c.JSON(http.StatusOK, models.CartView{
		CartID: cart.ID,
		User:   cart.User,
		Items:  items,
	})
}

type addToCartRequest struct {
	CartID    string  `json:"cartId"`
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gte=1"`
	Price     float64 `json:"price" binding:"gte=0"`
	Note      string  `json:"note"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	productID, ok := objectID(c, req.ProductID)
	if !ok {
		return
	}

	var cartID *primitive.ObjectID
	if req.CartID != "" {
		id, ok := objectID(c, req.CartID)
		if !ok {
			return
		}
		cartID = &id
	}

	item, err := s.stores.Carts.AddItem(c.Request.Context(), cartID, productID, req.Quantity, req.Price, req.Note)
	if err != nil {
		s.fail(c, err, "", "Error adding to cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Added to cart successfully",
		"cartItem": item,
	})
}

type updateQuantityRequest struct {
	CartItemID string `json:"cartItemId" binding:"required"`
	Quantity   *int   `json:"quantity" binding:"required"`
}

func (s *Server) updateCartItemQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	itemID, ok := objectID(c, req.CartItemID)
	if !ok {
		return
	}

	item, err := s.stores.Carts.UpdateQuantity(c.Request.Context(), itemID, *req.Quantity)
	if err != nil {
		s.fail(c, err, "Cart item not found", "Error updating cart item")
		return
	}
	if item == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item quantity updated", "cartItem": item})
}

type removeCartItemRequest struct {
	CartItemID string `json:"cartItemId" binding:"required"`
}

func (s *Server) removeCartItem(c *gin.Context) {
	var req removeCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	itemID, ok := objectID(c, req.CartItemID)
	if !ok {
		return
	}
	if err := s.stores.Carts.RemoveItem(c.Request.Context(), itemID); err != nil {
		s.fail(c, err, "Cart item not found", "Error removing cart item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed successfully"})
}

type clearCartRequest struct {
	CartID string `json:"cartId" binding:"required"`
}

func (s *Server) clearCart(c *gin.Context) {
	var req clearCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	cartID, ok := objectID(c, req.CartID)
	if !ok {
		return
	}
	cleared, err := s.stores.Carts.ClearCart(c.Request.Context(), cartID)
	if err != nil {
		s.fail(c, err, "", "Error clearing cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully", "cleared": cleared})
}
