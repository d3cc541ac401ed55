package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/service"
	"github.com/tarekkmohamed/ecommerce-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Discount      float64 `json:"discount" binding:"gte=0,lte=100"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	ImageURL      string  `json:"image_url"`
	CategoryID    *uint   `json:"category_id"`
	BrandID       *uint   `json:"brand_id"`
	IsActive      *bool   `json:"is_active"`
	IsFeatured    *bool   `json:"is_featured"`
}

type SetApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ListProducts returns products matching the query filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ProductListOptions{
		Search:        c.Query("search"),
		FeaturedOnly:  c.Query("featured") == "true",
		IncludeHidden: middleware.IsAdmin(c),
	}

	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			categoryID := uint(id)
			opts.CategoryID = &categoryID
		}
	}
	if v := c.Query("brand_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			brandID := uint(id)
			opts.BrandID = &brandID
		}
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MaxPrice = &price
		}
	}

	switch c.Query("sort") {
	case "price":
		opts.Sort = service.ProductSortPrice
	case "rating":
		opts.Sort = service.ProductSortRating
	default:
		opts.Sort = service.ProductSortCreatedAt
	}
	opts.SortAscending = c.Query("order") == "asc"

	opts.Limit = 20
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 100 {
			opts.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			opts.Offset = offset
		}
	}

	products, total, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch products",
		})
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
		"total": total,
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"total":    total,
	})
}

// GetProductByID returns a product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": c.Param("id"),
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// ListCategories returns all product categories
// GET /api/v1/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		log.Error("Failed to fetch categories", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// ListBrands returns all product brands
// GET /api/v1/brands
func (ctrl *ProductController) ListBrands(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brands, err := ctrl.productService.ListBrands()
	if err != nil {
		log.Error("Failed to fetch brands", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch brands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// CreateProduct creates a new product (Admin or Seller)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Creating product", map[string]interface{}{
		"title": req.Title,
		"price": req.Price,
	})

	product := &model.Product{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Discount:      req.Discount,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		SellerID:      &userID,
		IsActive:      true,
		// New listings wait for approval unless an admin creates them
		IsApproved: middleware.IsAdmin(c),
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil && middleware.IsAdmin(c) {
		product.IsFeatured = *req.IsFeatured
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"title": req.Title,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create product",
		})
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates an existing product (owner or Admin)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": c.Param("id"),
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Updating product", map[string]interface{}{
		"product_id": id,
		"title":      req.Title,
	})

	product := &model.Product{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Discount:      req.Discount,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		IsActive:      true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := ctrl.productService.UpdateProduct(userID, middleware.IsAdmin(c), product); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			log.Warn("Product not found for update", map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, service.ErrProductAccessDenied):
			log.Warn("Product update denied", map[string]interface{}{
				"product_id": id,
				"user_id":    userID,
			})
			c.JSON(http.StatusForbidden, gin.H{
				"error": "You do not have permission to modify this product",
			})
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update product",
			})
		}
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct deletes a product (owner or Admin)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	log.Debug("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if err := ctrl.productService.DeleteProduct(userID, middleware.IsAdmin(c), id); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			log.Warn("Product not found for deletion", map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, service.ErrProductAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "You do not have permission to delete this product",
			})
		default:
			log.Error("Failed to delete product", err, map[string]interface{}{
				"product_id": id,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete product",
			})
		}
		return
	}

	log.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// SetApproval approves or rejects a product listing (Admin only)
// PUT /api/v1/admin/products/:id/approval
func (ctrl *ProductController) SetApproval(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid approval request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.SetApproval(id, *req.Approved)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to update product approval", err, map[string]interface{}{
			"product_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update product approval",
		})
		return
	}

	log.Info("Product approval updated", map[string]interface{}{
		"product_id": id,
		"approved":   *req.Approved,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product approval updated",
		"product": product,
	})
}
