package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/auth"
	"github.com/AnhKhoa14/bakery/internal/models"
)

type addReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (s *Server) addReview(c *gin.Context) {
	productID, ok := objectID(c, c.Param("productId"))
	if !ok {
		return
	}
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(auth.SubjectID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	review := &models.Review{
		User:    userID,
		Product: productID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.stores.Reviews.Create(c.Request.Context(), review); err != nil {
		s.fail(c, err, "", "Failed to add review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully", "review": review})
}

func (s *Server) listReviews(c *gin.Context) {
	productID, ok := objectID(c, c.Param("productId"))
	if !ok {
		return
	}
	reviews, err := s.stores.Reviews.ByProduct(c.Request.Context(), productID)
	if err != nil {
		s.fail(c, err, "", "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *Server) deleteReview(c *gin.Context) {
	reviewID, ok := objectID(c, c.Param("reviewId"))
	if !ok {
		return
	}
	if err := s.stores.Reviews.Delete(c.Request.Context(), reviewID); err != nil {
		s.fail(c, err, "Review not found", "Failed to delete review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (s *Server) likeReview(c *gin.Context) {
	s.setReviewLike(c, true)
}

func (s *Server) unlikeReview(c *gin.Context) {
	s.setReviewLike(c, false)
}

func (s *Server) setReviewLike(c *gin.Context, like bool) {
	reviewID, ok := objectID(c, c.Param("reviewId"))
	if !ok {
		return
	}
	userID, err := primitive.ObjectIDFromHex(auth.SubjectID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var review *models.Review
	var msg string
	if like {
		review, err = s.stores.Reviews.Like(c.Request.Context(), reviewID, userID)
		msg = "Review liked successfully"
	} else {
		review, err = s.stores.Reviews.Unlike(c.Request.Context(), reviewID, userID)
		msg = "Review unliked successfully"
	}
	if err != nil {
		s.fail(c, err, "Review not found", "Failed to update review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "review": review})
}
