package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnhKhoa14/bakery/internal/models"
	"github.com/AnhKhoa14/bakery/internal/store"
)

func (s *Server) listProducts(c *gin.Context) {
	var f store.ProductFilter
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	f.Sort = c.Query("sort")

	if raw := c.Query("category"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category id"})
			return
		}
		f.Category = &id
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MinPrice = &v
		}
	}
	// The storefront sends "Infinity" for an unbounded upper price.
	if raw := c.Query("maxPrice"); raw != "" && raw != "Infinity" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MaxPrice = &v
		}
	}

	products, total, err := s.stores.Catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err, "", "Error fetching products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       products,
		"total":      total,
		"page":       f.Page,
		"totalPages": int(math.Ceil(float64(total) / float64(f.Limit))),
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}
	product, err := s.stores.Catalog.ProductByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err, "Product not found", "Error fetching product")
		return
	}
	c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Stock       bool    `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
	Category    string  `json:"category" binding:"required"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	categoryID, ok := objectID(c, req.Category)
	if !ok {
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		InStock:     req.Stock,
		ImageURL:    req.ImageURL,
		Category:    categoryID,
	}
	if err := s.stores.Catalog.CreateProduct(c.Request.Context(), product); err != nil {
		s.fail(c, err, "", "Error creating product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Only catalog fields may be patched; flags like isDeleted go through
	// their own endpoints.
	fields := map[string]interface{}{}
	for _, key := range []string{"name", "description", "price", "inStock", "imageUrl"} {
		if v, ok := body[key]; ok {
			fields[key] = v
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No updatable fields supplied"})
		return
	}

	product, err := s.stores.Catalog.UpdateProduct(c.Request.Context(), id, fields)
	if err != nil {
		s.fail(c, err, "Product not found", "Error updating product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := objectID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := s.stores.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Product not found", "Error deleting product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (s *Server) searchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter is required"})
		return
	}
	products, err := s.stores.Catalog.SearchProducts(c.Request.Context(), query)
	if err != nil {
		s.fail(c, err, "", "Error searching products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) bestSellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := s.stores.Catalog.BestSellers(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err, "", "Error fetching best sellers")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) newArrivals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := s.stores.Catalog.NewArrivals(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err, "", "Error fetching new arrivals")
		return
	}
	c.JSON(http.StatusOK, products)
}
