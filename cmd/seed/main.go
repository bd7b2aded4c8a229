package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/security"
)

const defaultSeedPassword = "ChangeMe123!"

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", nil)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	gdb := dbClient.DB().WithContext(ctx)

	if err := seedUsers(gdb); err != nil {
		logg.Error(ctx, "failed to seed users", err)
		os.Exit(1)
	}
	if err := seedCatalog(gdb); err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}
	if err := seedCustomers(gdb); err != nil {
		logg.Error(ctx, "failed to seed customers", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func seedUsers(gdb *gorm.DB) error {
	password := os.Getenv("MEDSUP_SEED_PASSWORD")
	if password == "" {
		password = defaultSeedPassword
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	users := []models.User{
		{Email: "admin@medsup.local", Name: "Ana Admin", Role: enums.UserRoleAdmin},
		{Email: "manager@medsup.local", Name: "Marta Manager", Role: enums.UserRoleManager},
		{Email: "sales@medsup.local", Name: "Samir Sales", Role: enums.UserRoleSales},
		{Email: "inventory@medsup.local", Name: "Iker Inventory", Role: enums.UserRoleInventory},
		{Email: "viewer@medsup.local", Name: "Vera Viewer", Role: enums.UserRoleViewer},
	}
	for i := range users {
		users[i].PasswordHash = hash
		users[i].IsActive = true
	}

	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&users).Error
}

func seedCatalog(gdb *gorm.DB) error {
	supplier := models.Supplier{
		Name:          "Iberica Medical Supplies SL",
		ContactPerson: ptr("Lucia Ortega"),
		Email:         ptr("orders@ibericamedical.example"),
		City:          ptr("Madrid"),
		Country:       ptr("Spain"),
		IsActive:      true,
	}
	if err := gdb.Where(models.Supplier{Name: supplier.Name}).FirstOrCreate(&supplier).Error; err != nil {
		return fmt.Errorf("seeding supplier: %w", err)
	}

	expiry := time.Now().UTC().AddDate(1, 0, 0)
	products := []struct {
		product models.Product
		stock   models.Inventory
	}{
		{
			product: models.Product{
				Name:            "Nitrile Examination Gloves (M)",
				SKU:             "PPE-GLV-001",
				Category:        "PPE",
				Description:     ptr("Powder-free nitrile gloves, box of 100"),
				Manufacturer:    ptr("SafeHands"),
				UnitPrice:       decimal.RequireFromString("12.99"),
				CostPrice:       decimal.RequireFromString("8.40"),
				UnitOfMeasure:   "box",
				ReorderPoint:    50,
				ReorderQuantity: 200,
				IsActive:        true,
			},
			stock: models.Inventory{CurrentStock: 150, Location: ptr("A-01-03"), ExpiryDate: &expiry},
		},
		{
			product: models.Product{
				Name:            "Surgical Masks Type IIR",
				SKU:             "PPE-MSK-002",
				Category:        "PPE",
				Description:     ptr("Three-layer masks, box of 50"),
				UnitPrice:       decimal.RequireFromString("6.50"),
				CostPrice:       decimal.RequireFromString("3.10"),
				UnitOfMeasure:   "box",
				ReorderPoint:    80,
				ReorderQuantity: 400,
				IsActive:        true,
			},
			stock: models.Inventory{CurrentStock: 60, Location: ptr("A-01-04")},
		},
		{
			product: models.Product{
				Name:            "Sterile Gauze Pads 10x10cm",
				SKU:             "WND-GZE-003",
				Category:        "Wound Care",
				UnitPrice:       decimal.RequireFromString("4.25"),
				CostPrice:       decimal.RequireFromString("2.00"),
				UnitOfMeasure:   "pack",
				ReorderPoint:    40,
				ReorderQuantity: 150,
				IsActive:        true,
			},
			stock: models.Inventory{CurrentStock: 0, Location: ptr("B-02-01")},
		},
	}

	for _, entry := range products {
		product := entry.product
		if err := gdb.Where(models.Product{SKU: product.SKU}).FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("seeding product %s: %w", product.SKU, err)
		}

		stock := entry.stock
		stock.ProductID = product.ID
		stock.SupplierID = &supplier.ID
		if err := gdb.Where(models.Inventory{ProductID: product.ID}).FirstOrCreate(&stock).Error; err != nil {
			return fmt.Errorf("seeding inventory for %s: %w", product.SKU, err)
		}
	}
	return nil
}

func seedCustomers(gdb *gorm.DB) error {
	customers := []models.Customer{
		{
			Name:          "Hospital General de Valencia",
			Type:          enums.CustomerTypeHospital,
			ContactPerson: ptr("Dr. Carmen Ruiz"),
			Email:         ptr("compras@hgv.example"),
			City:          ptr("Valencia"),
			Country:       ptr("Spain"),
			CreditLimit:   decimal.RequireFromString("50000.00"),
			IsActive:      true,
		},
		{
			Name:        "Clinica San Rafael",
			Type:        enums.CustomerTypeClinic,
			Email:       ptr("admin@sanrafael.example"),
			City:        ptr("Sevilla"),
			Country:     ptr("Spain"),
			CreditLimit: decimal.RequireFromString("12000.00"),
			IsActive:    true,
		},
	}
	for _, customer := range customers {
		record := customer
		if err := gdb.Where(models.Customer{Name: record.Name}).FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("seeding customer %s: %w", record.Name, err)
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
