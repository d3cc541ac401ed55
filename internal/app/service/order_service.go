package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/mailer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidAddress       = errors.New("invalid shipping address")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrOrderNotCancellable  = errors.New("order can no longer be cancelled")
)

// ShippingFieldError names the first manual shipping field missing from
// a checkout that does not reference a saved address.
type ShippingFieldError struct {
	Field string
}

func (e *ShippingFieldError) Error() string {
	return fmt.Sprintf("%s is required when not using a saved shipping address.", e.Field)
}

// CheckoutInput carries the buyer's checkout choices. The destination
// comes from a saved address id, the manual shipping fields, or the
// user's default address, tried in that order. An empty PaymentMethod
// means cash.
type CheckoutInput struct {
	AddressID     *uint
	PaymentMethod model.PaymentMethod

	ShipFullName     string
	ShipPhone        string
	ShipAddressLine1 string
	ShipAddressLine2 string
	ShipCity         string
	ShipState        string
	ShipZipCode      string
	ShipCountry      string
}

// hasManualFields reports whether any manual shipping field was sent.
func (in *CheckoutInput) hasManualFields() bool {
	return in.ShipFullName != "" || in.ShipPhone != "" ||
		in.ShipAddressLine1 != "" || in.ShipAddressLine2 != "" ||
		in.ShipCity != "" || in.ShipState != "" ||
		in.ShipZipCode != "" || in.ShipCountry != ""
}

// validateManualFields checks the six required shipping fields in a
// fixed order and reports the first one missing.
func (in *CheckoutInput) validateManualFields() error {
	required := []struct {
		name  string
		value string
	}{
		{"ship_full_name", in.ShipFullName},
		{"ship_phone", in.ShipPhone},
		{"ship_address_line1", in.ShipAddressLine1},
		{"ship_city", in.ShipCity},
		{"ship_zip_code", in.ShipZipCode},
		{"ship_country", in.ShipCountry},
	}
	for _, f := range required {
		if f.value == "" {
			return &ShippingFieldError{Field: f.name}
		}
	}
	return nil
}

type OrderService interface {
	CreateOrderFromCart(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	GetAllOrders(status string) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	MarkPaid(userID, orderID uint) (*model.Order, error)
	MarkDelivered(orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	GetOrderStats() (map[string]interface{}, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	userRepo    repository.UserRepository
	mailer      *mailer.Mailer
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
	m *mailer.Mailer,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		userRepo:    userRepo,
		mailer:      m,
		db:          db,
	}
}

// resolveShippingAddress picks the destination the order will ship to.
// An explicit AddressID must belong to the user. Without one, manual
// shipping fields are used when any was sent, after checking all six
// required fields are present. Otherwise the user's default address is
// the fallback.
func (s *orderService) resolveShippingAddress(userID uint, input CheckoutInput) (*model.ShippingAddress, error) {
	if input.AddressID != nil {
		address, err := s.addressRepo.FindByID(*input.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidAddress
			}
			return nil, err
		}
		if address.UserID != userID {
			logger.Warn("Shipping address access denied: ownership mismatch", map[string]interface{}{
				"user_id":    userID,
				"address_id": *input.AddressID,
				"owner_id":   address.UserID,
			})
			return nil, ErrInvalidAddress
		}
		return address, nil
	}

	if input.hasManualFields() {
		if err := input.validateManualFields(); err != nil {
			return nil, err
		}
		return &model.ShippingAddress{
			FullName:     input.ShipFullName,
			Phone:        input.ShipPhone,
			AddressLine1: input.ShipAddressLine1,
			AddressLine2: input.ShipAddressLine2,
			City:         input.ShipCity,
			State:        input.ShipState,
			ZipCode:      input.ShipZipCode,
			Country:      input.ShipCountry,
		}, nil
	}

	address, err := s.addressRepo.FindDefaultByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAddress
		}
		return nil, err
	}
	return address, nil
}

// CreateOrderFromCart converts the user's cart into an order. Stock
// checks, decrements, order insertion, and cart clearing all happen in
// one transaction: either the whole order commits or nothing changes.
// Item prices and the shipping destination are snapshotted so the order
// stays fixed no matter what happens to products or addresses later.
func (s *orderService) CreateOrderFromCart(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":    userID,
		"address_id": input.AddressID,
	})

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentMethodCash
	}
	if !model.ValidPaymentMethod(paymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	// An empty cart fails before any address work; the customer fixes
	// their cart first, then their shipping details.
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	address, err := s.resolveShippingAddress(userID, input)
	if err != nil {
		if errors.Is(err, ErrInvalidAddress) {
			logger.Warn("Checkout requires a valid shipping address", map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Debug("Processing cart items for order", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(cartItems),
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		totalAmount float64
		orderItems  []model.OrderItem
	)

	for _, cartItem := range cartItems {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order creation", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		if !product.Purchasable() {
			tx.Rollback()
			logger.Warn("Order creation failed: product unavailable", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, ErrProductUnavailable
		}

		if product.StockQuantity < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
				"requested":  cartItem.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, &InsufficientStockError{Available: product.StockQuantity}
		}

		unitPrice := product.DiscountedPrice()
		productID := cartItem.ProductID

		orderItems = append(orderItems, model.OrderItem{
			ProductID:    &productID,
			ProductTitle: product.Title,
			ProductPrice: unitPrice,
			Quantity:     cartItem.Quantity,
		})
		totalAmount += unitPrice * float64(cartItem.Quantity)

		// Conditional decrement as a second guard behind the row lock.
		if err := s.productRepo.DecrementStock(tx, product.ID, cartItem.Quantity); err != nil {
			tx.Rollback()
			if errors.Is(err, repository.ErrInsufficientStock) {
				logger.Warn("Order creation failed: stock changed under us", map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
				})
				return nil, &InsufficientStockError{Available: product.StockQuantity}
			}
			logger.Error("Failed to decrement product stock", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, err
		}
	}

	order := &model.Order{
		OrderNumber:      uuid.NewString(),
		UserID:           userID,
		Status:           model.OrderStatusPending,
		TotalAmount:      totalAmount,
		PaymentMethod:    paymentMethod,
		ShipFullName:     address.FullName,
		ShipPhone:        address.Phone,
		ShipAddressLine1: address.AddressLine1,
		ShipAddressLine2: address.AddressLine2,
		ShipCity:         address.City,
		ShipState:        address.State,
		ShipZipCode:      address.ZipCode,
		ShipCountry:      address.Country,
		OrderItems:       orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":      userID,
			"total_amount": totalAmount,
		})
		return nil, err
	}

	if err := s.cartRepo.DeleteByUserIDTx(tx, userID); err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": totalAmount,
		"item_count":   len(orderItems),
	})

	s.sendOrderConfirmation(userID, order)

	return s.orderRepo.FindByID(order.ID)
}

// sendOrderConfirmation emails the buyer after commit. Delivery
// failures are logged, never surfaced: the order already exists.
func (s *orderService) sendOrderConfirmation(userID uint, order *model.Order) {
	if s.mailer == nil {
		return
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Warn("Could not load user for order confirmation email", map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return
	}

	if err := s.mailer.SendOrderConfirmation(user.Email, order.OrderNumber, order.TotalAmount); err != nil {
		logger.Warn("Order confirmation email failed", map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
	}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) GetAllOrders(status string) ([]model.Order, error) {
	if status != "" && !model.ValidOrderStatus(model.OrderStatus(status)) {
		return nil, ErrInvalidOrderStatus
	}
	return s.orderRepo.FindAll(status)
}

// UpdateOrderStatus is the admin-side transition. Moving to cancelled
// goes through the cancellation path so reserved stock is returned;
// moving to delivered stamps the delivery fields.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	switch status {
	case model.OrderStatusCancelled:
		return s.cancel(order)
	case model.OrderStatusDelivered:
		return s.MarkDelivered(orderID)
	}

	if order.Status == model.OrderStatusCancelled {
		// Cancelled orders stay cancelled; their stock was returned.
		return nil, ErrOrderNotCancellable
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return nil, err
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return s.orderRepo.FindByID(orderID)
}

// MarkPaid records payment on the caller's own order. Orders belonging
// to other users come back as not found. Calling it on an already paid
// order is a no-op returning the order unchanged, so payment retries
// are safe.
func (s *orderService) MarkPaid(userID, orderID uint) (*model.Order, error) {
	logger.Info("Marking order as paid", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		logger.Debug("Order already paid, nothing to do", map[string]interface{}{
			"order_id": orderID,
		})
		return order, nil
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	if order.Status == model.OrderStatusPending {
		order.Status = model.OrderStatusProcessing
	}

	if err := s.orderRepo.Update(order); err != nil {
		logger.Error("Failed to mark order as paid", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order marked as paid", map[string]interface{}{
		"order_id": orderID,
	})
	return order, nil
}

// MarkDelivered stamps delivery exactly once. The first call sets
// DeliveredAt; later calls leave the original timestamp in place.
func (s *orderService) MarkDelivered(orderID uint) (*model.Order, error) {
	logger.Info("Marking order as delivered", map[string]interface{}{
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status == model.OrderStatusCancelled {
		return nil, ErrOrderNotCancellable
	}

	if order.IsDelivered {
		logger.Debug("Order already delivered, nothing to do", map[string]interface{}{
			"order_id": orderID,
		})
		return order, nil
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.Status = model.OrderStatusDelivered

	if err := s.orderRepo.Update(order); err != nil {
		logger.Error("Failed to mark order as delivered", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order marked as delivered", map[string]interface{}{
		"order_id": orderID,
	})
	return order, nil
}

// CancelOrder is the customer-side cancellation with an ownership
// check on top of the shared cancel path.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.cancel(order)
}

// cancel returns reserved stock and flips the status, atomically.
// Orders past processing cannot be cancelled.
func (s *orderService) cancel(order *model.Order) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if !order.Cancellable() {
		logger.Warn("Order cannot be cancelled in its current status", map[string]interface{}{
			"order_id": order.ID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCancellable
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order cancellation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_id": order.ID,
			})
		}
	}()

	for _, item := range order.OrderItems {
		if item.ProductID == nil {
			// Product was deleted after purchase, nothing to restore.
			continue
		}
		if err := s.productRepo.RestoreStock(tx, *item.ProductID, item.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("status", model.OrderStatusCancelled).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to cancel order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order cancellation", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order cancelled successfully", map[string]interface{}{
		"order_id": order.ID,
	})
	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetOrderStats() (map[string]interface{}, error) {
	return s.orderRepo.GetStats()
}
