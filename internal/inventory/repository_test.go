package inventory

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MEDSUP_DB_DSN")
	if dsn == "" {
		t.Skip("MEDSUP_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateStockedProduct(t *testing.T, tx *gorm.DB, name string, current, reserved, reorderPoint int, expiry *time.Time) *models.Inventory {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           "INV-TST-" + uuid.NewString()[:8],
		Category:      "Gloves",
		UnitPrice:     decimal.RequireFromString("10.00"),
		CostPrice:     decimal.Zero,
		UnitOfMeasure: "box",
		ReorderPoint:  reorderPoint,
		IsActive:      true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	inventory := &models.Inventory{
		ID:            uuid.New(),
		ProductID:     product.ID,
		CurrentStock:  current,
		ReservedStock: reserved,
		ExpiryDate:    expiry,
	}
	if err := tx.Create(inventory).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	return inventory
}

func TestRepositoryAdjustStockGuards(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	inventory := mustCreateStockedProduct(t, tx, "Adjust Test Gloves", 10, 4, 5, nil)

	ok, err := repo.AdjustStock(ctx, inventory.ID, 15)
	if err != nil {
		t.Fatalf("adjust up: %v", err)
	}
	if !ok {
		t.Fatal("expected upward adjustment to succeed")
	}

	ok, err = repo.AdjustStock(ctx, inventory.ID, -30)
	if err != nil {
		t.Fatalf("adjust below reservations: %v", err)
	}
	if ok {
		t.Fatal("expected adjustment below reservations to be refused")
	}

	ok, err = repo.AdjustStock(ctx, inventory.ID, -21)
	if err != nil {
		t.Fatalf("adjust to reservation floor: %v", err)
	}
	if !ok {
		t.Fatal("expected adjustment down to reservation floor to succeed")
	}

	reloaded, err := repo.FindByID(ctx, inventory.ID)
	if err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if reloaded.CurrentStock != 4 {
		t.Fatalf("expected current stock 4, got %d", reloaded.CurrentStock)
	}
}

func TestRepositoryCreateAndDeleteInventory(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	existing := mustCreateStockedProduct(t, tx, "Create Test Drapes", 20, 0, 5, nil)

	if err := repo.DeleteInventory(ctx, existing.ID); err != nil {
		t.Fatalf("delete inventory: %v", err)
	}
	if err := repo.DeleteInventory(ctx, existing.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	created, err := repo.CreateInventory(ctx, &models.Inventory{ProductID: existing.ProductID, CurrentStock: 7})
	if err != nil {
		t.Fatalf("recreate inventory: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated inventory id")
	}

	// Duplicate insert goes last: the failed statement poisons the
	// wrapping test transaction.
	if _, err := repo.CreateInventory(ctx, &models.Inventory{ProductID: existing.ProductID}); err == nil {
		t.Fatal("expected duplicate product row to be rejected")
	}
}

func TestRepositoryInventoryFeeds(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	soon := time.Now().UTC().AddDate(0, 0, 30)
	far := time.Now().UTC().AddDate(1, 0, 0)

	low := mustCreateStockedProduct(t, tx, "Feed Low Gloves", 5, 0, 10, nil)
	out := mustCreateStockedProduct(t, tx, "Feed Out Masks", 0, 0, 10, nil)
	expiring := mustCreateStockedProduct(t, tx, "Feed Expiring Gowns", 50, 0, 5, &soon)
	_ = mustCreateStockedProduct(t, tx, "Feed Healthy Syringes", 80, 0, 5, &far)

	records, total, err := repo.ListInventoryRecords(ctx, inventoryListQuery{
		Pagination: pagination.Params{Limit: 50},
		Filters:    InventoryListFilters{Query: "feed"},
	})
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if total != 4 || len(records) != 4 {
		t.Fatalf("expected 4 feed rows, got total %d len %d", total, len(records))
	}

	shortfall, err := repo.ListShortfallRecords(ctx)
	if err != nil {
		t.Fatalf("list shortfall: %v", err)
	}
	foundLow, foundOut := false, false
	for _, record := range shortfall {
		if record.ID == low.ID {
			foundLow = true
		}
		if record.ID == out.ID {
			foundOut = true
		}
		if record.ID == expiring.ID {
			t.Fatal("healthy stock should not appear in shortfall feed")
		}
	}
	if !foundLow || !foundOut {
		t.Fatalf("expected low and out rows in shortfall feed: low=%v out=%v", foundLow, foundOut)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, 90)
	expiringRecords, err := repo.ListExpiringRecords(ctx, cutoff)
	if err != nil {
		t.Fatalf("list expiring: %v", err)
	}
	foundExpiring := false
	for _, record := range expiringRecords {
		if record.ID == expiring.ID {
			foundExpiring = true
		}
	}
	if !foundExpiring {
		t.Fatal("expected expiring row in the 90 day window")
	}

	stats, err := repo.GetStats(ctx, cutoff)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.TotalProducts < 4 {
		t.Fatalf("expected at least 4 products in stats, got %d", stats.TotalProducts)
	}
	if stats.TotalStockValue.LessThan(decimal.RequireFromString("1350.00")) {
		t.Fatalf("expected stock value to cover fixtures, got %s", stats.TotalStockValue)
	}
}
