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

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	ShippingAddressID *uint  `json:"shipping_address_id"`
	PaymentMethod     string `json:"payment_method" binding:"omitempty,oneof=cash card paypal"`

	// Manual shipping fields, used when no saved address id is sent.
	ShipFullName     string `json:"ship_full_name"`
	ShipPhone        string `json:"ship_phone"`
	ShipAddressLine1 string `json:"ship_address_line1"`
	ShipAddressLine2 string `json:"ship_address_line2"`
	ShipCity         string `json:"ship_city"`
	ShipState        string `json:"ship_state"`
	ShipZipCode      string `json:"ship_zip_code"`
	ShipCountry      string `json:"ship_country"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// Checkout converts the user's cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized checkout attempt", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req CheckoutRequest
	// Body is optional: an empty body means "use the default address"
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	log.Debug("Creating order from cart", map[string]interface{}{
		"user_id":             userID,
		"shipping_address_id": req.ShippingAddressID,
		"payment_method":      req.PaymentMethod,
	})

	input := service.CheckoutInput{
		AddressID:        req.ShippingAddressID,
		PaymentMethod:    model.PaymentMethod(req.PaymentMethod),
		ShipFullName:     req.ShipFullName,
		ShipPhone:        req.ShipPhone,
		ShipAddressLine1: req.ShipAddressLine1,
		ShipAddressLine2: req.ShipAddressLine2,
		ShipCity:         req.ShipCity,
		ShipState:        req.ShipState,
		ShipZipCode:      req.ShipZipCode,
		ShipCountry:      req.ShipCountry,
	}

	order, err := ctrl.orderService.CreateOrderFromCart(userID, input)
	if err != nil {
		var fieldErr *service.ShippingFieldError
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			log.Warn("Order creation failed: empty cart", map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
		case errors.As(err, &fieldErr):
			log.Warn("Order creation failed: incomplete shipping details", map[string]interface{}{
				"user_id": userID,
				"field":   fieldErr.Field,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fieldErr.Error(),
			})
		case errors.Is(err, service.ErrInvalidAddress):
			log.Warn("Order creation failed: no valid shipping address", map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "A valid shipping address is required",
			})
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid payment method",
			})
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrProductUnavailable):
			log.Warn("Order creation failed: product unavailable", map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusConflict, gin.H{
				"error": "A product in your cart is no longer available",
			})
		case errors.As(err, &stockErr):
			log.Warn("Order creation failed: insufficient stock", map[string]interface{}{
				"user_id":   userID,
				"available": stockErr.Available,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"error": stockErr.Error(),
			})
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create order",
			})
		}
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrders returns user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to orders", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch orders",
		})
		return
	}

	log.Info("Orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns order by ID
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to order", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Warn("Invalid order ID format", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// CancelOrder cancels a pending or processing order and restores stock
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized order cancellation attempt", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, service.ErrOrderNotCancellable):
			log.Warn("Order cannot be cancelled", map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order can no longer be cancelled",
			})
		default:
			log.Error("Failed to cancel order", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to cancel order",
			})
		}
		return
	}

	log.Info("Order cancelled successfully", map[string]interface{}{
		"user_id":  userID,
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// GetAllOrders returns all orders, optionally filtered by status (Admin only)
// GET /api/v1/admin/orders
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")

	orders, err := ctrl.orderService.GetAllOrders(status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid order status",
			})
			return
		}
		log.Error("Failed to fetch all orders", err, map[string]interface{}{
			"status": status,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus updates order status (Admin only)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		log.Warn("Invalid order ID format", map[string]interface{}{
			"order_id": c.Param("id"),
			"error":    err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update order status request", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	log.Debug("Updating order status", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	order, err := ctrl.orderService.UpdateOrderStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, service.ErrInvalidOrderStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid order status",
			})
		case errors.Is(err, service.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order status cannot be changed",
			})
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update order status",
			})
		}
		return
	}

	log.Info("Order status updated successfully", map[string]interface{}{
		"order_id": id,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// MarkPaid records payment for the caller's own order
// POST /api/v1/orders/:id/pay
func (ctrl *OrderController) MarkPaid(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized payment attempt", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, err := ctrl.orderService.MarkPaid(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		log.Error("Failed to mark order as paid", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to mark order as paid",
		})
		return
	}

	log.Info("Order marked as paid", map[string]interface{}{
		"user_id":  userID,
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as paid",
		"order":   order,
	})
}

// MarkDelivered records delivery for an order (Admin only)
// POST /api/v1/admin/orders/:id/deliver
func (ctrl *OrderController) MarkDelivered(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, err := ctrl.orderService.MarkDelivered(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, service.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cancelled orders cannot be delivered",
			})
		default:
			log.Error("Failed to mark order as delivered", err, map[string]interface{}{
				"order_id": id,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to mark order as delivered",
			})
		}
		return
	}

	log.Info("Order marked as delivered", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as delivered",
		"order":   order,
	})
}

// GetOrderStats returns aggregate order statistics (Admin only)
// GET /api/v1/admin/orders/stats
func (ctrl *OrderController) GetOrderStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.orderService.GetOrderStats()
	if err != nil {
		log.Error("Failed to fetch order stats", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch order statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
