package products

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
)

func mustCreateTestSupplier(t *testing.T, tx *gorm.DB) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Test Supplier %s", uuid.NewString()[:8]),
	}
	if err := tx.Create(supplier).Error; err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return supplier
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, sku, category string, price string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          fmt.Sprintf("Test Product %s", sku),
		SKU:           sku,
		Category:      category,
		UnitPrice:     decimal.RequireFromString(price),
		CostPrice:     decimal.Zero,
		UnitOfMeasure: "box",
		ReorderPoint:  10,
		IsActive:      active,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestInventory(t *testing.T, tx *gorm.DB, productID uuid.UUID, current, reserved int, supplierID *uuid.UUID) *models.Inventory {
	t.Helper()
	inventory := &models.Inventory{
		ID:            uuid.New(),
		ProductID:     productID,
		CurrentStock:  current,
		ReservedStock: reserved,
		SupplierID:    supplierID,
	}
	if err := tx.Create(inventory).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	return inventory
}
