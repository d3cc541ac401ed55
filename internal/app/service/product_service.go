package service

import (
	"errors"
	"fmt"

	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductUnavailable  = errors.New("product is not available for purchase")
	ErrProductAccessDenied = errors.New("product access denied")
)

// InsufficientStockError carries the remaining quantity so handlers can
// tell the customer how many units they can still get. It matches
// ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only %d items available in stock.", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortRating    ProductSort = "rating"
)

type ProductListOptions struct {
	CategoryID    *uint
	BrandID       *uint
	SellerID      *uint
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	FeaturedOnly  bool
	IncludeHidden bool
	Sort          ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, int64, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(userID uint, isAdmin bool, product *model.Product) error
	DeleteProduct(userID uint, isAdmin bool, id uint) error
	SetApproval(id uint, approved bool) (*model.Product, error)
	CheckStock(productID uint, quantity int) error
	ListCategories() ([]model.Category, error)
	ListBrands() ([]model.Brand, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, int64, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category_id": opts.CategoryID,
		"brand_id":    opts.BrandID,
		"search":      opts.Search,
		"sort":        opts.Sort,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
	})

	filter := repository.ProductFilter{
		CategoryID:    opts.CategoryID,
		BrandID:       opts.BrandID,
		SellerID:      opts.SellerID,
		Search:        opts.Search,
		MinPrice:      opts.MinPrice,
		MaxPrice:      opts.MaxPrice,
		FeaturedOnly:  opts.FeaturedOnly,
		IncludeHidden: opts.IncludeHidden,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	}

	switch opts.Sort {
	case ProductSortPrice:
		filter.SortBy = repository.ProductSortPrice
	case ProductSortRating:
		filter.SortBy = repository.ProductSortRating
	case ProductSortCreatedAt:
		fallthrough
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating new product", map[string]interface{}{
		"title":       product.Title,
		"category_id": product.CategoryID,
		"brand_id":    product.BrandID,
		"seller_id":   product.SellerID,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"title": product.Title,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return nil
}

// canManage reports whether the caller may modify the product. Admins
// manage everything; sellers manage only their own listings.
func canManage(userID uint, isAdmin bool, product *model.Product) bool {
	if isAdmin {
		return true
	}
	return product.SellerID != nil && *product.SellerID == userID
}

func (s *productService) UpdateProduct(userID uint, isAdmin bool, product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
		"user_id":    userID,
	})

	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot update: product not found", map[string]interface{}{
				"product_id": product.ID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	if !canManage(userID, isAdmin, existing) {
		logger.Warn("Product update forbidden", map[string]interface{}{
			"product_id": product.ID,
			"user_id":    userID,
			"seller_id":  existing.SellerID,
		})
		return ErrProductAccessDenied
	}

	// Ownership and approval are not writable through updates.
	product.SellerID = existing.SellerID
	if !isAdmin {
		product.IsApproved = existing.IsApproved
		product.IsFeatured = existing.IsFeatured
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return nil
}

func (s *productService) DeleteProduct(userID uint, isAdmin bool, id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot delete: product not found", map[string]interface{}{
				"product_id": id,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if !canManage(userID, isAdmin, existing) {
		logger.Warn("Product delete forbidden", map[string]interface{}{
			"product_id": id,
			"user_id":    userID,
			"seller_id":  existing.SellerID,
		})
		return ErrProductAccessDenied
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) SetApproval(id uint, approved bool) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.IsApproved = approved
	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product approval", err, map[string]interface{}{
			"product_id": id,
			"approved":   approved,
		})
		return nil, err
	}

	logger.Info("Product approval updated", map[string]interface{}{
		"product_id": id,
		"approved":   approved,
	})
	return product, nil
}

func (s *productService) CheckStock(productID uint, quantity int) error {
	logger.Debug("Checking product stock", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for stock check", map[string]interface{}{
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for stock check", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	if !product.Purchasable() {
		return ErrProductUnavailable
	}

	if product.StockQuantity < quantity {
		logger.Warn("Insufficient product stock", map[string]interface{}{
			"product_id":      productID,
			"requested":       quantity,
			"available_stock": product.StockQuantity,
		})
		return &InsufficientStockError{Available: product.StockQuantity}
	}

	return nil
}

func (s *productService) ListCategories() ([]model.Category, error) {
	return s.productRepo.ListCategories()
}

func (s *productService) ListBrands() ([]model.Brand, error) {
	return s.productRepo.ListBrands()
}
