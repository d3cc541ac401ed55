package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/db"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	return testDB, repo
}

func createTestProduct(t *testing.T, repo ProductRepository, title string, price float64, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Title:         title,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
		IsApproved:    true,
	}
	require.NoError(t, repo.Create(product))
	return product
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Title:         "Wireless Headphones",
		Description:   "Over-ear, noise cancelling",
		Price:         199.99,
		StockQuantity: 10,
		ImageURL:      "https://example.com/headphones.jpg",
		IsActive:      true,
		IsApproved:    true,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{Title: "Keyboard", Price: 49.99, StockQuantity: 30, IsActive: true, IsApproved: true},
		{Title: "Mouse", Price: 24.99, StockQuantity: 50, IsActive: true, IsApproved: true},
		{Title: "Monitor", Price: 249.99, StockQuantity: 12, IsActive: true, IsApproved: true},
	}

	err := repo.BulkCreate(products, 2)
	assert.NoError(t, err)

	found, err := repo.FindAll()
	assert.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "Laptop Stand", 39.99, 10)

	tests := []struct {
		name    string
		id      uint
		wantErr bool
	}{
		{
			name:    "Existing product",
			id:      product.ID,
			wantErr: false,
		},
		{
			name:    "Non-existing product",
			id:      9999,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, product.Title, found.Title)
			}
		})
	}
}

func TestProductRepository_FindWithFilter_HidesUnapproved(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	createTestProduct(t, repo, "Visible", 10, 5)
	hidden := createTestProduct(t, repo, "Hidden", 20, 5)
	require.NoError(t, testDB.Model(hidden).Update("is_approved", false).Error)

	products, total, err := repo.FindWithFilter(ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Visible", products[0].Title)

	products, total, err = repo.FindWithFilter(ProductFilter{IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)
}

func TestProductRepository_FindWithFilter_CategoryAndSearch(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	category := model.Category{Name: "Audio"}
	require.NoError(t, testDB.Create(&category).Error)

	speaker := createTestProduct(t, repo, "Bluetooth Speaker", 59.99, 8)
	require.NoError(t, testDB.Model(speaker).Update("category_id", category.ID).Error)
	createTestProduct(t, repo, "Desk Lamp", 19.99, 15)

	products, total, err := repo.FindWithFilter(ProductFilter{CategoryID: &category.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Bluetooth Speaker", products[0].Title)

	products, _, err = repo.FindWithFilter(ProductFilter{Search: "lamp"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Desk Lamp", products[0].Title)
}

func TestProductRepository_FindWithFilter_PriceSort(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	createTestProduct(t, repo, "Cheap", 5, 5)
	createTestProduct(t, repo, "Pricey", 500, 5)
	createTestProduct(t, repo, "Mid", 50, 5)

	products, _, err := repo.FindWithFilter(ProductFilter{
		SortBy:        ProductSortPrice,
		SortAscending: true,
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Cheap", products[0].Title)
	assert.Equal(t, "Pricey", products[2].Title)

	minPrice := 10.0
	maxPrice := 100.0
	products, total, err := repo.FindWithFilter(ProductFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Mid", products[0].Title)
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "USB Hub", 29.99, 10)

	product.Price = 34.99
	product.StockQuantity = 15

	err := repo.Update(product)
	assert.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 34.99, updated.Price)
	assert.Equal(t, 15, updated.StockQuantity)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "Webcam", 79.99, 10)

	err := repo.DecrementStock(testDB, product.ID, 3)
	assert.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.StockQuantity)
}

func TestProductRepository_DecrementStock_Insufficient(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "Webcam", 79.99, 2)

	err := repo.DecrementStock(testDB, product.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The guarded update must leave stock untouched
	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.StockQuantity)
}

func TestProductRepository_RestoreStock(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "Webcam", 79.99, 5)

	err := repo.RestoreStock(testDB, product.ID, 4)
	assert.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.StockQuantity)
}

func TestProductRepository_UpdateRatingStats(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "Webcam", 79.99, 5)

	err := repo.UpdateRatingStats(product.ID, 4.5, 2)
	assert.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, updated.AverageRating)
	assert.Equal(t, 2, updated.TotalReviews)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := createTestProduct(t, repo, "Webcam", 79.99, 5)

	err := repo.Delete(product.ID)
	assert.NoError(t, err)

	// Soft delete
	_, err = repo.FindByID(product.ID)
	assert.Error(t, err)
}

func TestProductRepository_ListCategoriesAndBrands(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, testDB.Create(&model.Category{Name: "Audio"}).Error)
	require.NoError(t, testDB.Create(&model.Category{Name: "Video"}).Error)
	require.NoError(t, testDB.Create(&model.Brand{Name: "Acme"}).Error)

	categories, err := repo.ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	brands, err := repo.ListBrands()
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}
