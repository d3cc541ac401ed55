package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/db"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Title:         "Test Product",
		Price:         100,
		StockQuantity: 10,
		IsActive:      true,
		IsApproved:    true,
	}
	require.NoError(t, testDB.Create(product).Error)

	return testDB, repo, user, product
}

func newTestOrder(user *model.User, product *model.Product, n int) *model.Order {
	return &model.Order{
		OrderNumber:      fmt.Sprintf("ORD-TEST-%04d", n),
		UserID:           user.ID,
		Status:           model.OrderStatusPending,
		TotalAmount:      200,
		ShipFullName:     user.Name,
		ShipAddressLine1: "1 Main St",
		ShipCity:         "Springfield",
		ShipZipCode:      "12345",
		ShipCountry:      "US",
		OrderItems: []model.OrderItem{
			{
				ProductID:    &product.ID,
				ProductTitle: product.Title,
				ProductPrice: product.Price,
				Quantity:     2,
			},
		},
	}
}

func TestOrderRepository_Create(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, 1)

	err := repo.Create(order)
	assert.NoError(t, err)
	assert.NotZero(t, order.ID)
	require.Len(t, order.OrderItems, 1)
	assert.NotZero(t, order.OrderItems[0].ID)
}

func TestOrderRepository_Create_DuplicateOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	first := newTestOrder(user, product, 1)
	require.NoError(t, repo.Create(first))

	dup := newTestOrder(user, product, 1)
	err := repo.Create(dup)
	assert.Error(t, err)
}

func TestOrderRepository_FindByID(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, 1)
	require.NoError(t, repo.Create(order))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	// Items come preloaded with their checkout snapshots
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, "Test Product", found.OrderItems[0].ProductTitle)
	assert.Equal(t, float64(100), found.OrderItems[0].ProductPrice)

	_, err = repo.FindByID(9999)
	assert.Error(t, err)
}

func TestOrderRepository_FindByOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, 7)
	require.NoError(t, repo.Create(order))

	found, err := repo.FindByOrderNumber("ORD-TEST-0007")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByOrderNumber("ORD-MISSING")
	assert.Error(t, err)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(newTestOrder(user, product, 1)))
	require.NoError(t, repo.Create(newTestOrder(user, product, 2)))

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)
	require.NoError(t, repo.Create(newTestOrder(other, product, 3)))

	orders, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.FindByUserID(9999)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_FindAll_StatusFilter(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	pending := newTestOrder(user, product, 1)
	require.NoError(t, repo.Create(pending))

	shipped := newTestOrder(user, product, 2)
	shipped.Status = model.OrderStatusShipped
	require.NoError(t, repo.Create(shipped))

	all, err := repo.FindAll("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.FindAll("shipped")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, shipped.ID, filtered[0].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, 1)
	require.NoError(t, repo.Create(order))

	err := repo.UpdateStatus(order.ID, model.OrderStatusProcessing)
	assert.NoError(t, err)

	updated, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, updated.Status)
}

func TestOrderRepository_GetStats(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	paid := newTestOrder(user, product, 1)
	paid.IsPaid = true
	paid.Status = model.OrderStatusProcessing
	require.NoError(t, repo.Create(paid))

	unpaid := newTestOrder(user, product, 2)
	require.NoError(t, repo.Create(unpaid))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total_orders"])
	assert.Equal(t, int64(1), stats["pending_orders"])
	assert.Equal(t, int64(1), stats["processing_orders"])
	// Revenue only counts paid orders
	assert.Equal(t, float64(200), stats["total_revenue"])
}
