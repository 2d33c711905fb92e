package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/auth"
	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/mail"
	"github.com/AnhKhoa14/bakery/internal/models"
	"github.com/AnhKhoa14/bakery/internal/store"
)

type Server struct {
	router *gin.Engine
	db     *database.DB
	stores *store.Stores
	codec  *auth.TokenCodec
	mailer mail.Mailer
}

// NewServer creates a new server instance
func NewServer(db *database.DB, stores *store.Stores, codec *auth.TokenCodec, mailer mail.Mailer) *Server {
	router := gin.Default()

	server := &Server{
		router: router,
		db:     db,
		stores: stores,
		codec:  codec,
		mailer: mailer,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	authn := auth.Authenticate(s.codec)
	admin := auth.RequireRoles(models.RoleAdmin)
	customer := auth.RequireRoles(models.RoleCustomer)
	anyUser := auth.RequireRoles(models.RoleCustomer, models.RoleAdmin)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.register)
			authRoutes.POST("/login", s.login)
			authRoutes.POST("/refresh-token", s.refreshToken)
			authRoutes.POST("/logout", s.logout)
			authRoutes.POST("/forgot-password", s.forgotPassword)
			authRoutes.POST("/reset-password", s.resetPassword)
			authRoutes.POST("/verify-code", s.verifyCode)
			authRoutes.GET("/me", authn, anyUser, s.me)
		}

		products := api.Group("/products")
		{
			products.GET("/search", s.searchProducts)
			products.GET("/best-sellers", s.bestSellers)
			products.GET("/new-arrivals", s.newArrivals)
			products.GET("", s.listProducts)
			products.GET("/:id", s.getProduct)
			products.POST("", authn, admin, s.createProduct)
			products.PUT("/:id", authn, admin, s.updateProduct)
			products.DELETE("/:id", authn, admin, s.deleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("/popular", s.popularCategories)
			categories.GET("", s.listCategories)
			categories.GET("/:id", s.getCategory)
			categories.POST("", authn, admin, s.createCategory)
			categories.PUT("/:id", authn, admin, s.updateCategory)
			categories.DELETE("/:id", authn, admin, s.deleteCategory)
		}

		cart := api.Group("/cart")
		{
			cart.GET("/:userId", s.getCart)
			cart.POST("/add-to-cart", s.addToCart)
			cart.PUT("/update-cart-item-quantity", s.updateCartItemQuantity)
			cart.DELETE("/remove-cart-item", s.removeCartItem)
			cart.DELETE("/clear-cart", s.clearCart)
		}

		coupons := api.Group("/coupons")
		{
			coupons.POST("/apply", authn, customer, s.applyCoupon)
			coupons.GET("", authn, customer, s.listCoupons)
			coupons.GET("/:code", authn, customer, s.getCoupon)
			coupons.POST("", authn, admin, s.createCoupon)
			coupons.PUT("/:code", authn, admin, s.updateCoupon)
			coupons.DELETE("/:code", authn, admin, s.deleteCoupon)
		}

		discounts := api.Group("/discounts")
		{
			discounts.GET("", authn, s.listDiscounts)
			discounts.GET("/:id", authn, s.activeDiscounts)
			discounts.POST("", authn, admin, s.createDiscount)
			discounts.PUT("/:id", authn, admin, s.updateDiscount)
			discounts.DELETE("/:id", authn, admin, s.deleteDiscount)
		}

		orders := api.Group("/orders")
		{
			orders.GET("/statistics", authn, admin, s.orderStatistics)
			orders.GET("/track/:orderId", authn, anyUser, s.trackOrder)
			orders.POST("", authn, customer, s.createOrder)
			orders.GET("/user/:userId", authn, customer, s.ordersByUser)
			orders.GET("", authn, admin, s.listOrders)
			orders.GET("/:orderId", authn, anyUser, s.getOrder)
			orders.PUT("/:orderId/status", authn, admin, s.updateOrderStatus)
			orders.DELETE("/:orderId", authn, admin, s.cancelOrder)
		}

		reviews := api.Group("/reviews")
		{
			reviews.POST("/products/:productId", authn, s.addReview)
			reviews.GET("/products/:productId", s.listReviews)
			reviews.DELETE("/reviews/:reviewId", authn, anyUser, s.deleteReview)
			reviews.POST("/reviews/:reviewId/like", authn, s.likeReview)
			reviews.POST("/reviews/:reviewId/unlike", authn, s.unlikeReview)
		}
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if s.db != nil {
		if err := s.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"error":  "database connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "bakery",
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// fail maps store failures onto the HTTP error taxonomy: not-found → 404
// with notFoundMsg, business-rule conflicts → 400 with the rule's message,
// anything else → 500 with internalMsg.
func (s *Server) fail(c *gin.Context, err error, notFoundMsg, internalMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrCouponExpired),
		errors.Is(err, store.ErrCouponExhausted),
		errors.Is(err, models.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(internalMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalMsg})
	}
}

// objectID parses a path or body-supplied hex id, replying 400 on garbage.
func objectID(c *gin.Context, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}
