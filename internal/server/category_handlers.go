package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AnhKhoa14/bakery/internal/models"
)

func (s *Server) listCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	categories, total, err := s.stores.Catalog.ListCategories(c.Request.Context(), page, limit)
	if err != nil {
		s.fail(c, err, "", "Error fetching categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		"data":       categories,
	})
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}
	category, err := s.stores.Catalog.CategoryByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err, "Category not found", "Error fetching category")
		return
	}
	c.JSON(http.StatusOK, category)
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category := &models.Category{Name: req.Name}
	if err := s.stores.Catalog.CreateCategory(c.Request.Context(), category); err != nil {
		s.fail(c, err, "", "Error creating category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category, err := s.stores.Catalog.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		s.fail(c, err, "Category not found", "Error updating category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := s.stores.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Category not found", "Error deleting category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (s *Server) popularCategories(c *gin.Context) {
	categories, err := s.stores.Catalog.PopularCategories(c.Request.Context(), 5)
	if err != nil {
		s.fail(c, err, "", "Error fetching popular categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
