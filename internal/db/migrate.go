package db

import (
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Category{},
		&model.Brand{},
		&model.Product{},
		&model.CartItem{},
		&model.ShippingAddress{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}
	if err := seedBrands(); err != nil {
		logger.Error("Failed to seed brands", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding category data...")

	categories := []model.Category{
		{Name: "Electronics"},
		{Name: "Clothing"},
		{Name: "Home & Kitchen"},
		{Name: "Books"},
		{Name: "Sports & Outdoors"},
		{Name: "Beauty"},
		{Name: "Toys & Games"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}

func seedBrands() error {
	var count int64
	if err := DB.Model(&model.Brand{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Brands already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding brand data...")

	brands := []model.Brand{
		{Name: "Generic"},
		{Name: "Acme"},
		{Name: "Northwind"},
		{Name: "Contoso"},
	}

	for _, brand := range brands {
		if err := DB.Create(&brand).Error; err != nil {
			logger.Error("Failed to create brand", err, map[string]interface{}{
				"brand": brand.Name,
			})
			return err
		}
	}

	logger.Info("Brands seeded successfully", map[string]interface{}{
		"total_brands": len(brands),
	})
	return nil
}
