package repository

import (
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.ShippingAddress) error
	FindByUserID(userID uint) ([]model.ShippingAddress, error)
	FindByID(id uint) (*model.ShippingAddress, error)
	FindDefaultByUserID(userID uint) (*model.ShippingAddress, error)
	CountByUserID(userID uint) (int64, error)
	Update(address *model.ShippingAddress) error
	Delete(id uint) error
	SetDefault(userID, addressID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.ShippingAddress) error {
	logger.Debug("Creating shipping address in database", map[string]interface{}{
		"user_id":   address.UserID,
		"label":     address.Label,
		"full_name": address.FullName,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create shipping address in database", err, map[string]interface{}{
			"user_id": address.UserID,
			"label":   address.Label,
		})
		return err
	}

	logger.Debug("Shipping address created in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})
	return nil
}

func (r *addressRepository) FindByUserID(userID uint) ([]model.ShippingAddress, error) {
	logger.Debug("Finding shipping addresses by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var addresses []model.ShippingAddress
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find shipping addresses by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shipping addresses found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

func (r *addressRepository) FindByID(id uint) (*model.ShippingAddress, error) {
	logger.Debug("Finding shipping address by ID in database", map[string]interface{}{
		"address_id": id,
	})

	var address model.ShippingAddress
	err := r.db.First(&address, id).Error
	if err != nil {
		logger.Error("Failed to find shipping address by ID in database", err, map[string]interface{}{
			"address_id": id,
		})
		return nil, err
	}

	return &address, nil
}

func (r *addressRepository) FindDefaultByUserID(userID uint) (*model.ShippingAddress, error) {
	logger.Debug("Finding default shipping address in database", map[string]interface{}{
		"user_id": userID,
	})

	var address model.ShippingAddress
	err := r.db.Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error
	if err != nil {
		return nil, err
	}

	return &address, nil
}

func (r *addressRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ShippingAddress{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count shipping addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return count, nil
}

func (r *addressRepository) Update(address *model.ShippingAddress) error {
	logger.Debug("Updating shipping address in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})

	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update shipping address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}

	return nil
}

func (r *addressRepository) Delete(id uint) error {
	logger.Debug("Deleting shipping address from database", map[string]interface{}{
		"address_id": id,
	})

	if err := r.db.Delete(&model.ShippingAddress{}, id).Error; err != nil {
		logger.Error("Failed to delete shipping address from database", err, map[string]interface{}{
			"address_id": id,
		})
		return err
	}

	return nil
}

// SetDefault makes addressID the user's only default address. Both
// updates run in one transaction so the exclusivity invariant holds.
func (r *addressRepository) SetDefault(userID, addressID uint) error {
	logger.Debug("Setting default shipping address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	tx := r.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for setting default address", tx.Error, map[string]interface{}{
			"user_id": userID,
		})
		return tx.Error
	}

	if err := tx.Model(&model.ShippingAddress{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to unset default addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if addressID != 0 {
		if err := tx.Model(&model.ShippingAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to set address as default", err, map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit transaction for setting default address", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Default shipping address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}
