package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tarekkmohamed/ecommerce-backend/config"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/model"
	"github.com/tarekkmohamed/ecommerce-backend/internal/app/repository"
	"github.com/tarekkmohamed/ecommerce-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Imports a product catalog from an XLSX export. Expected columns:
// title, description, category, brand, price, discount, stock, image_url.
// The first row is treated as a header.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(db.GetDB(), filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(gdb *gorm.DB, filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	categories := make(map[string]uint)
	brands := make(map[string]uint)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		cell := func(idx int) string {
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		title := cell(0)
		description := cell(1)
		categoryName := cell(2)
		brandName := cell(3)
		priceStr := cell(4)
		discountStr := cell(5)
		stockStr := cell(6)
		imageURL := cell(7)

		if title == "" || len([]rune(title)) < 3 {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		discount := 0.0
		if discountStr != "" {
			discount, err = strconv.ParseFloat(discountStr, 64)
			if err != nil || discount < 0 || discount > 100 {
				skippedCount++
				continue
			}
		}

		stock := 0
		if stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				skippedCount++
				continue
			}
		}

		// Duplicate rows within one file collapse onto the first one
		key := fmt.Sprintf("%s|%s", strings.ToLower(title), strings.ToLower(brandName))
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		product := model.Product{
			Title:         title,
			Description:   description,
			Price:         price,
			Discount:      discount,
			StockQuantity: stock,
			ImageURL:      imageURL,
			IsActive:      true,
			IsApproved:    true,
		}

		if categoryName != "" {
			id, err := resolveCategory(gdb, categories, categoryName)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve category %q: %w", categoryName, err)
			}
			product.CategoryID = &id
		}

		if brandName != "" {
			id, err := resolveBrand(gdb, brands, brandName)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve brand %q: %w", brandName, err)
			}
			product.BrandID = &id
		}

		products = append(products, product)

		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// resolveCategory maps a category name to its ID, creating the row on first
// sight. The cache avoids one round trip per product row.
func resolveCategory(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[strings.ToLower(name)]; ok {
		return id, nil
	}

	category := model.Category{Name: name}
	if err := gdb.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
		return 0, err
	}

	cache[strings.ToLower(name)] = category.ID
	return category.ID, nil
}

func resolveBrand(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[strings.ToLower(name)]; ok {
		return id, nil
	}

	brand := model.Brand{Name: name}
	if err := gdb.Where("name = ?", name).FirstOrCreate(&brand).Error; err != nil {
		return 0, err
	}

	cache[strings.ToLower(name)] = brand.ID
	return brand.ID, nil
}
