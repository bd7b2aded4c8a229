package orders

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
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

func mustCreateOrderFixtures(t *testing.T, tx *gorm.DB, stock, reserved int) (*models.Customer, *models.Product) {
	t.Helper()

	customer := &models.Customer{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("Order Test Hospital %s", uuid.NewString()[:8]),
		Type:     enums.CustomerTypeHospital,
		IsActive: true,
	}
	if err := tx.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Order Test Gloves",
		SKU:           "ORD-TST-" + uuid.NewString()[:8],
		Category:      "Gloves",
		UnitPrice:     decimal.RequireFromString("12.99"),
		CostPrice:     decimal.Zero,
		UnitOfMeasure: "box",
		IsActive:      true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	inventory := &models.Inventory{
		ID:            uuid.New(),
		ProductID:     product.ID,
		CurrentStock:  stock,
		ReservedStock: reserved,
	}
	if err := tx.Create(inventory).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}

	return customer, product
}

func TestRepositoryReserveReleaseFulfill(t *testing.T) {
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

	_, product := mustCreateOrderFixtures(t, tx, 10, 0)

	ok, err := repo.ReserveStock(ctx, product.ID, 6)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !ok {
		t.Fatal("expected reservation to succeed")
	}

	ok, err = repo.ReserveStock(ctx, product.ID, 5)
	if err != nil {
		t.Fatalf("second reserve: %v", err)
	}
	if ok {
		t.Fatal("expected reservation past available to be refused")
	}

	available, err := repo.AvailableStock(ctx, product.ID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 4 {
		t.Fatalf("expected available 4, got %d", available)
	}

	if err := repo.ReleaseStock(ctx, product.ID, 2); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := repo.FulfillStock(ctx, product.ID, 4); err != nil {
		t.Fatalf("fulfill: %v", err)
	}

	var inventory models.Inventory
	if err := tx.First(&inventory, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if inventory.CurrentStock != 6 || inventory.ReservedStock != 0 {
		t.Fatalf("unexpected counters after fulfill: current=%d reserved=%d", inventory.CurrentStock, inventory.ReservedStock)
	}
}

func TestRepositoryNextOrderNumber(t *testing.T) {
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

	customer, _ := mustCreateOrderFixtures(t, tx, 5, 0)

	// Years far in the future keep the sequence isolated from real rows.
	year := 2900
	first, err := repo.NextOrderNumber(ctx, year)
	if err != nil {
		t.Fatalf("next order number: %v", err)
	}
	if first != "ORD-2900-001" {
		t.Fatalf("expected ORD-2900-001, got %s", first)
	}

	order := &models.Order{
		OrderNumber: first,
		CustomerID:  customer.ID,
		OrderDate:   time.Now().UTC(),
		Status:      enums.OrderStatusPending,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	second, err := repo.NextOrderNumber(ctx, year)
	if err != nil {
		t.Fatalf("next order number again: %v", err)
	}
	if second != "ORD-2900-002" {
		t.Fatalf("expected ORD-2900-002, got %s", second)
	}
}

func TestRepositoryOrderViewAndList(t *testing.T) {
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

	customer, product := mustCreateOrderFixtures(t, tx, 100, 0)

	order := &models.Order{
		OrderNumber: "ORD-2900-777",
		CustomerID:  customer.ID,
		OrderDate:   time.Now().UTC(),
		Status:      enums.OrderStatusPending,
		Subtotal:    decimal.RequireFromString("25.98"),
		TotalAmount: decimal.RequireFromString("38.68"),
		Items: []models.OrderItem{
			{
				ProductID:  product.ID,
				Quantity:   2,
				UnitPrice:  decimal.RequireFromString("12.99"),
				TotalPrice: decimal.RequireFromString("25.98"),
			},
		},
	}
	if _, err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	view, err := repo.GetOrderView(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order view: %v", err)
	}
	if view.CustomerName != customer.Name {
		t.Fatalf("expected customer name %q, got %q", customer.Name, view.CustomerName)
	}
	if len(view.Items) != 1 || view.Items[0].ProductSKU != product.SKU {
		t.Fatalf("unexpected items: %+v", view.Items)
	}

	status := enums.OrderStatusPending
	list, err := repo.ListOrderSummaries(ctx, orderListQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters: OrderListFilters{
			Status:     &status,
			CustomerID: &customer.ID,
		},
	})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected total 1, got %d", list.Total)
	}
	if list.Orders[0].ItemCount != 1 {
		t.Fatalf("expected item count 1, got %d", list.Orders[0].ItemCount)
	}
}
