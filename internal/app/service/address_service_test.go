package service

import (
	"testing"

	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAddressServiceTest(t *testing.T) (AddressService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	addressRepo := repository.NewAddressRepository(testDB)
	addressService := NewAddressService(addressRepo)

	user := &model.User{
		Email:        "mover@example.com",
		PasswordHash: "hash",
		Name:         "Mover",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(user)

	return addressService, testDB, user
}

func newTestAddress(label string) *model.ShippingAddress {
	return &model.ShippingAddress{
		Label:        label,
		FullName:     "Mover",
		Phone:        "555-0100",
		AddressLine1: "1 " + label + " Street",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62701",
		Country:      "US",
	}
}

func TestAddressService_FirstAddressBecomesDefault(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	first := newTestAddress("Home")
	require.NoError(t, addressService.CreateAddress(user.ID, first))
	assert.True(t, first.IsDefault)

	second := newTestAddress("Office")
	require.NoError(t, addressService.CreateAddress(user.ID, second))
	assert.False(t, second.IsDefault)
}

func TestAddressService_DefaultIsExclusive(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	first := newTestAddress("Home")
	require.NoError(t, addressService.CreateAddress(user.ID, first))

	second := newTestAddress("Office")
	require.NoError(t, addressService.CreateAddress(user.ID, second))

	require.NoError(t, addressService.SetDefaultAddress(user.ID, second.ID))

	addresses, err := addressService.GetUserAddresses(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)

	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestAddressService_OwnershipHidesForeignAddresses(t *testing.T) {
	addressService, testDB, user := setupAddressServiceTest(t)

	address := newTestAddress("Home")
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	stranger := &model.User{
		Email:        "stranger@example.com",
		PasswordHash: "hash",
		Name:         "Stranger",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(stranger)

	_, err := addressService.GetAddressByID(stranger.ID, address.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.UpdateAddress(stranger.ID, address.ID, newTestAddress("Hijacked"))
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.DeleteAddress(stranger.ID, address.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.SetDefaultAddress(stranger.ID, address.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestAddressService_UpdateAddress(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	address := newTestAddress("Home")
	require.NoError(t, addressService.CreateAddress(user.ID, address))

	patch := newTestAddress("Relocated")
	patch.City = "Chicago"
	require.NoError(t, addressService.UpdateAddress(user.ID, address.ID, patch))

	found, err := addressService.GetAddressByID(user.ID, address.ID)
	require.NoError(t, err)
	assert.Equal(t, "Relocated", found.Label)
	assert.Equal(t, "Chicago", found.City)
	// A plain update never drops the default flag.
	assert.True(t, found.IsDefault)
}

func TestAddressService_DeleteDefaultPromotesAnother(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	first := newTestAddress("Home")
	require.NoError(t, addressService.CreateAddress(user.ID, first))
	second := newTestAddress("Office")
	require.NoError(t, addressService.CreateAddress(user.ID, second))

	require.NoError(t, addressService.DeleteAddress(user.ID, first.ID))

	addresses, err := addressService.GetUserAddresses(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, second.ID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
}

func TestAddressService_DeleteLastAddress(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	only := newTestAddress("Home")
	require.NoError(t, addressService.CreateAddress(user.ID, only))
	require.NoError(t, addressService.DeleteAddress(user.ID, only.ID))

	addresses, err := addressService.GetUserAddresses(user.ID)
	require.NoError(t, err)
	assert.Len(t, addresses, 0)
}
