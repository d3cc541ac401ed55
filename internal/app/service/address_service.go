package service

import (
	"errors"

	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressService interface {
	GetUserAddresses(userID uint) ([]model.ShippingAddress, error)
	GetAddressByID(userID, addressID uint) (*model.ShippingAddress, error)
	CreateAddress(userID uint, address *model.ShippingAddress) error
	UpdateAddress(userID, addressID uint, updatedAddress *model.ShippingAddress) error
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		addressRepo: addressRepo,
	}
}

func (s *addressService) GetUserAddresses(userID uint) ([]model.ShippingAddress, error) {
	logger.Debug("Fetching user addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return addresses, nil
}

// GetAddressByID fetches one address with an ownership check. Someone
// else's address looks exactly like a missing one.
func (s *addressService) GetAddressByID(userID, addressID uint) (*model.ShippingAddress, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		logger.Error("Failed to fetch address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}

	if address.UserID != userID {
		logger.Warn("Address access denied: ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return nil, ErrAddressNotFound
	}

	return address, nil
}

func (s *addressService) CreateAddress(userID uint, address *model.ShippingAddress) error {
	logger.Info("Creating shipping address", map[string]interface{}{
		"user_id": userID,
		"label":   address.Label,
	})

	address.UserID = userID

	// The first address a user creates becomes their default.
	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		logger.Error("Failed to count existing addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	if count == 0 {
		address.IsDefault = true
	}

	if address.IsDefault && count > 0 {
		if err := s.addressRepo.SetDefault(userID, 0); err != nil {
			logger.Error("Failed to unset default addresses", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
	})
	return nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, updatedAddress *model.ShippingAddress) error {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.GetAddressByID(userID, addressID)
	if err != nil {
		return err
	}

	address.Label = updatedAddress.Label
	address.FullName = updatedAddress.FullName
	address.Phone = updatedAddress.Phone
	address.AddressLine1 = updatedAddress.AddressLine1
	address.AddressLine2 = updatedAddress.AddressLine2
	address.City = updatedAddress.City
	address.State = updatedAddress.State
	address.ZipCode = updatedAddress.ZipCode
	address.Country = updatedAddress.Country

	if updatedAddress.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
			logger.Error("Failed to set address as default", err, map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return err
		}
		address.IsDefault = true
	}

	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}

// DeleteAddress removes an address. When the default goes away the
// oldest remaining address is promoted so the user always has a
// default while any address exists.
func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.GetAddressByID(userID, addressID)
	if err != nil {
		return err
	}

	wasDefault := address.IsDefault

	if err := s.addressRepo.Delete(addressID); err != nil {
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	if wasDefault {
		remaining, err := s.addressRepo.FindByUserID(userID)
		if err != nil {
			logger.Error("Failed to fetch remaining addresses", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}
		if len(remaining) > 0 {
			promoted := remaining[len(remaining)-1]
			if err := s.addressRepo.SetDefault(userID, promoted.ID); err != nil {
				logger.Error("Failed to promote replacement default address", err, map[string]interface{}{
					"user_id":    userID,
					"address_id": promoted.ID,
				})
				return err
			}
			logger.Debug("Promoted replacement default address", map[string]interface{}{
				"user_id":    userID,
				"address_id": promoted.ID,
			})
		}
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.GetAddressByID(userID, addressID); err != nil {
		return err
	}

	if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
		logger.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}
