package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/service"
	"github.com/tarekkmohamed/ecommerce-backend/internal/db"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, addressRepo, userRepo, testDB, nil)
	orderController := NewOrderController(orderService)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(user)

	// Default shipping address
	testDB.Create(&model.ShippingAddress{
		UserID:       user.ID,
		Label:        "Home",
		FullName:     "Test User",
		Phone:        "555-0100",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		ZipCode:      "12345",
		Country:      "US",
		IsDefault:    true,
	})

	// Create test product
	product := &model.Product{
		Title:         "Test Product",
		Price:         100,
		StockQuantity: 10,
		IsActive:      true,
		IsApproved:    true,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return orderController, router, testDB, user, product
}

func TestOrderController_GetOrders_Success(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	// Create test orders
	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusPending,
	})
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-2",
		TotalAmount: 200,
		Status:      model.OrderStatusProcessing,
	})

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(2), response["count"])
	orders := response["orders"].([]interface{})
	assert.Len(t, orders, 2)
}

func TestOrderController_GetOrders_Empty(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(0), response["count"])
}

func TestOrderController_GetOrders_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupOrderControllerTest(t)

	router.GET("/orders", controller.GetOrders)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "User not authenticated", response["error"])
}

func TestOrderController_GetOrderByID_Success(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	order := &model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusPending,
	}
	orderRepo.Create(order)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrderByID(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	orderData := response["order"].(map[string]interface{})
	assert.Equal(t, float64(100), orderData["total_amount"])
	assert.Equal(t, "pending", orderData["status"])
}

func TestOrderController_GetOrderByID_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrderByID(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Order not found", response["error"])
}

func TestOrderController_GetOrderByID_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrderByID(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/invalid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Invalid order ID", response["error"])
}

func TestOrderController_Checkout_Success(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	// Empty body falls back to the default address
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Order created successfully", response["message"])

	orderData := response["order"].(map[string]interface{})
	assert.Equal(t, float64(200), orderData["total_amount"]) // 100 * 2
	assert.NotEmpty(t, orderData["order_number"])
	assert.Equal(t, "Springfield", orderData["ship_city"])

	// Stock decremented and cart cleared
	var updated model.Product
	testDB.First(&updated, product.ID)
	assert.Equal(t, 8, updated.StockQuantity)

	items, _ := cartRepo.FindByUserID(user.ID)
	assert.Len(t, items, 0)
}

func TestOrderController_Checkout_ExplicitAddress(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	second := &model.ShippingAddress{
		UserID:       user.ID,
		Label:        "Office",
		FullName:     "Test User",
		Phone:        "555-0101",
		AddressLine1: "2 Work Ave",
		City:         "Shelbyville",
		ZipCode:      "54321",
		Country:      "US",
	}
	testDB.Create(second)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	reqBody := CheckoutRequest{ShippingAddressID: &second.ID}
	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	orderData := response["order"].(map[string]interface{})
	assert.Equal(t, "Shelbyville", orderData["ship_city"])
}

func TestOrderController_Checkout_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupOrderControllerTest(t)

	router.POST("/orders", controller.Checkout)

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "User not authenticated", response["error"])
}

func TestOrderController_Checkout_EmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart is empty", response["error"])
}

func TestOrderController_Checkout_InsufficientStock(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  100, // Exceeds stock
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Only 10 items available in stock.", response["error"])
}

func TestOrderController_Checkout_ManualShippingFields(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	// No saved addresses; the body carries the full destination.
	testDB.Unscoped().Where("user_id = ?", user.ID).Delete(&model.ShippingAddress{})

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	reqBody := CheckoutRequest{
		PaymentMethod:    "card",
		ShipFullName:     "Test User",
		ShipPhone:        "555-0100",
		ShipAddressLine1: "9 Guest Road",
		ShipCity:         "Ogden",
		ShipZipCode:      "84401",
		ShipCountry:      "US",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	orderData := response["order"].(map[string]interface{})
	assert.Equal(t, "9 Guest Road", orderData["ship_address_line1"])
	assert.Equal(t, "Ogden", orderData["ship_city"])
	assert.Equal(t, "card", orderData["payment_method"])
}

func TestOrderController_Checkout_ManualFieldMissing(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	// Partial manual fields must not silently fall back to the saved
	// default address.
	jsonBody, _ := json.Marshal(map[string]interface{}{
		"ship_full_name": "Test User",
		"ship_phone":     "555-0100",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ship_address_line1 is required when not using a saved shipping address.", response["error"])
}

func TestOrderController_Checkout_PaymentMethodStored(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	jsonBody, _ := json.Marshal(map[string]interface{}{"payment_method": "paypal"})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	orderData := response["order"].(map[string]interface{})
	assert.Equal(t, "paypal", orderData["payment_method"])

	var stored model.Order
	testDB.First(&stored, uint(orderData["id"].(float64)))
	assert.Equal(t, model.PaymentMethodPaypal, stored.PaymentMethod)
}

func TestOrderController_Checkout_UnknownPaymentMethod(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	jsonBody, _ := json.Marshal(map[string]interface{}{"payment_method": "barter"})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_Checkout_NoAddress(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	// Remove the default address seeded by setup
	testDB.Unscoped().Where("user_id = ?", user.ID).Delete(&model.ShippingAddress{})

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "A valid shipping address is required", response["error"])
}

func TestOrderController_CancelOrder_Success(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  3,
	})

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})
	router.POST("/orders/:id/cancel", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CancelOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/orders/1/cancel", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Order cancelled successfully", response["message"])

	// Stock restored
	var updated model.Product
	testDB.First(&updated, product.ID)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestOrderController_CancelOrder_Delivered(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusDelivered,
	})

	router.POST("/orders/:id/cancel", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CancelOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Order can no longer be cancelled", response["error"])
}

func TestOrderController_GetAllOrders_FilterByStatus(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{UserID: user.ID, OrderNumber: "ord-1", TotalAmount: 100, Status: model.OrderStatusPending})
	orderRepo.Create(&model.Order{UserID: user.ID, OrderNumber: "ord-2", TotalAmount: 200, Status: model.OrderStatusShipped})

	router.GET("/admin/orders", controller.GetAllOrders)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=shipped", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
}

func TestOrderController_GetAllOrders_InvalidStatus(t *testing.T) {
	controller, router, _, _, _ := setupOrderControllerTest(t)

	router.GET("/admin/orders", controller.GetAllOrders)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=teleported", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Invalid order status", response["error"])
}

func TestOrderController_UpdateOrderStatus_Success(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusProcessing,
	})

	router.PUT("/admin/orders/:id/status", controller.UpdateOrderStatus)

	reqBody := UpdateOrderStatusRequest{
		Status: model.OrderStatusShipped,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/1/status", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Order status updated successfully", response["message"])

	updatedOrder, _ := orderRepo.FindByID(1)
	assert.Equal(t, model.OrderStatusShipped, updatedOrder.Status)
}

func TestOrderController_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusPending,
	})

	router.PUT("/admin/orders/:id/status", controller.UpdateOrderStatus)

	jsonBody, _ := json.Marshal(map[string]interface{}{"status": "teleported"})
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/1/status", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Invalid order status", response["error"])
}

func TestOrderController_MarkPaid_Success(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusPending,
	})

	router.POST("/orders/:id/pay", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.MarkPaid(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/1/pay", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	updatedOrder, _ := orderRepo.FindByID(1)
	assert.True(t, updatedOrder.IsPaid)
	assert.NotNil(t, updatedOrder.PaidAt)
	assert.Equal(t, model.OrderStatusProcessing, updatedOrder.Status)
}

func TestOrderController_MarkPaid_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders/:id/pay", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.MarkPaid(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/9999/pay", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_MarkPaid_ForeignOrder(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(other)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      other.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusPending,
	})

	// Another user's order looks like it does not exist.
	router.POST("/orders/:id/pay", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.MarkPaid(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/1/pay", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	updatedOrder, _ := orderRepo.FindByID(1)
	assert.False(t, updatedOrder.IsPaid)
}

func TestOrderController_MarkDelivered_Success(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusShipped,
	})

	router.POST("/admin/orders/:id/deliver", controller.MarkDelivered)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/1/deliver", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	updatedOrder, _ := orderRepo.FindByID(1)
	assert.True(t, updatedOrder.IsDelivered)
	assert.NotNil(t, updatedOrder.DeliveredAt)
	assert.Equal(t, model.OrderStatusDelivered, updatedOrder.Status)
}

func TestOrderController_MarkDelivered_Cancelled(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{
		UserID:      user.ID,
		OrderNumber: "ord-1",
		TotalAmount: 100,
		Status:      model.OrderStatusCancelled,
	})

	router.POST("/admin/orders/:id/deliver", controller.MarkDelivered)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/1/deliver", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cancelled orders cannot be delivered", response["error"])
}

func TestOrderController_GetOrderStats(t *testing.T) {
	controller, router, testDB, user, _ := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	orderRepo.Create(&model.Order{UserID: user.ID, OrderNumber: "ord-1", TotalAmount: 100, Status: model.OrderStatusPending})
	orderRepo.Create(&model.Order{UserID: user.ID, OrderNumber: "ord-2", TotalAmount: 200, Status: model.OrderStatusDelivered})

	router.GET("/admin/orders/stats", controller.GetOrderStats)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	stats := response["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_orders"])
}
