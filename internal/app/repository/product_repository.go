package repository

import (
	"errors"
	"fmt"

	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DecrementStock when the guarded
// update matches no row, meaning available stock was below the request.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortRating    ProductSort = "rating"
)

type ProductFilter struct {
	CategoryID    *uint
	BrandID       *uint
	SellerID      *uint
	Search        string
	MinPrice      *float64
	MaxPrice      *float64
	FeaturedOnly  bool
	IncludeHidden bool
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	DecrementStock(tx *gorm.DB, id uint, quantity int) error
	RestoreStock(tx *gorm.DB, id uint, quantity int) error
	UpdateRatingStats(id uint, average float64, total int) error
	ListCategories() ([]model.Category, error)
	ListBrands() ([]model.Brand, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"title":     product.Title,
		"price":     product.Price,
		"seller_id": product.SellerID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title": product.Title,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return nil
}

func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products in database", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	return nil
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Brand")
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	products, _, err := r.FindWithFilter(ProductFilter{})
	return products, err
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id": filter.CategoryID,
		"brand_id":    filter.BrandID,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery()

	if !filter.IncludeHidden {
		query = query.Where("products.is_active = ? AND products.is_approved = ?", true, true)
	}

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}

	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}

	if filter.SellerID != nil {
		query = query.Where("products.seller_id = ?", *filter.SellerID)
	}

	if filter.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.title LIKE ? OR products.description LIKE ?", like, like)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, nil)
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortRating:
		query = query.Order("products.average_rating " + direction)
		query = query.Order("products.created_at DESC")
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.baseQuery().First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

// FindByIDForUpdate loads a product inside tx holding a row lock until
// the transaction ends.
func (r *productRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(lockForUpdate()).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

// DecrementStock atomically subtracts quantity from a product's stock.
// The WHERE guard makes the decrement conditional: when stock is below
// the requested quantity no row is updated and ErrInsufficientStock is
// returned, so stock can never go negative regardless of concurrent
// checkouts.
func (r *productRepository) DecrementStock(tx *gorm.DB, id uint, quantity int) error {
	result := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product stock", result.Error, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	logger.Debug("Product stock decremented", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
	})
	return nil
}

// RestoreStock adds quantity back, used when a cancelled order returns
// its reserved units.
func (r *productRepository) RestoreStock(tx *gorm.DB, id uint, quantity int) error {
	if err := tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error; err != nil {
		logger.Error("Failed to restore product stock", err, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateRatingStats(id uint, average float64, total int) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"total_reviews":  total,
		}).Error; err != nil {
		logger.Error("Failed to update product rating stats", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *productRepository) ListBrands() ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.Order("name ASC").Find(&brands).Error; err != nil {
		logger.Error("Failed to list brands", err, nil)
		return nil, err
	}
	return brands, nil
}
