package controllers

import (
	"net/http"
	"strings"

	"thread-backend/models"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CreateProductRequest defines the expected structure for creating a product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       float64         `json:"price" validate:"required,gt=0"`
	Category    string          `json:"category" validate:"required"`
	Sizes       []string        `json:"sizes"`
	Images      []string        `json:"images"`
	Reviews     []models.Review `json:"reviews"`
}

// updatableProductFields whitelists what PATCH may touch and checks that the
// decoded JSON value has the type the document field expects, so a bad value
// never reaches $set.
var updatableProductFields = map[string]func(interface{}) bool{
	"name":        isNonEmptyString,
	"description": isString,
	"price":       isPositiveNumber,
	"category":    isNonEmptyString,
	"sizes":       isStringSlice,
	"images":      isStringSlice,
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func isNonEmptyString(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

func isPositiveNumber(v interface{}) bool {
	n, ok := v.(float64)
	return ok && n > 0
}

func isStringSlice(v interface{}) bool {
	items, ok := v.([]interface{})
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// ProductController handles HTTP requests for the catalog.
type ProductController struct {
	productService services.ProductService
	validate       *validator.Validate
}

func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
		validate:       validator.New(),
	}
}

// CreateProduct handles POST /api/products (admin only).
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}
	if err := pc.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Sizes:       req.Sizes,
		Images:      req.Images,
		Reviews:     req.Reviews,
	}

	created, svcErr := pc.productService.CreateProduct(c.Request.Context(), product)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": created})
}

// GetFeatured handles GET /api/products (public landing-page listing).
func (pc *ProductController) GetFeatured(c *gin.Context) {
	products, svcErr := pc.productService.GetFeatured(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, products)
}

// QueryProducts handles GET /api/products/query with search, category
// filters, price sort and pagination.
func (pc *ProductController) QueryProducts(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	var categories []string
	for _, raw := range c.QueryArray("cats[]") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}

	query := &services.ProductQuery{
		Search:     strings.TrimSpace(c.Query("search")),
		Categories: categories,
		Sort:       c.Query("sort"),
		Page:       page,
		Limit:      limit,
	}

	result, svcErr := pc.productService.QueryProducts(c.Request.Context(), query)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"result":       result.Products,
		"totalProduct": result.TotalProduct,
		"totalPage":    result.TotalPage,
		"currentPage":  result.CurrentPage,
	})
}

// GetProduct handles GET /api/products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, svcErr := pc.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PATCH /api/products/:id (admin only).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	updates := make(map[string]interface{}, len(body))
	for field, value := range body {
		validValue, ok := updatableProductFields[field]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Field cannot be updated: " + field})
			return
		}
		if !validValue(value) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value for field: " + field})
			return
		}
		updates[field] = value
	}

	if svcErr := pc.productService.UpdateProduct(c.Request.Context(), c.Param("id"), updates); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated"})
}

// DeleteProduct handles DELETE /api/products/:id (admin only).
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if svcErr := pc.productService.DeleteProduct(c.Request.Context(), c.Param("id")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

// ReviewCount handles GET /api/products/reviews/count (admin only).
func (pc *ProductController) ReviewCount(c *gin.Context) {
	total, svcErr := pc.productService.TotalReviews(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalReviews": total})
}
