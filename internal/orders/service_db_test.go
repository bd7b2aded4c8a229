package orders

import (
	"context"
	"io"
	"testing"

	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// savepointRunner satisfies txRunner inside a test transaction. gorm
// turns the nested Transaction call into a savepoint, so the outer
// rollback still cleans everything up.
type savepointRunner struct {
	tx *gorm.DB
}

func (r *savepointRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.tx.Transaction(func(inner *gorm.DB) error {
		return fn(inner)
	})
}

func TestServiceStatusChangeMovesStock(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	customer, product := mustCreateOrderFixtures(t, tx, 10, 0)

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
	svc, err := NewService(NewRepository(tx), &savepointRunner{tx: tx}, testPricing(), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	reloadInventory := func() *models.Inventory {
		t.Helper()
		var inventory models.Inventory
		if err := tx.First(&inventory, "product_id = ?", product.ID).Error; err != nil {
			t.Fatalf("reload inventory: %v", err)
		}
		return &inventory
	}

	first, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if inv := reloadInventory(); inv.CurrentStock != 10 || inv.ReservedStock != 4 {
		t.Fatalf("unexpected counters after create: current=%d reserved=%d", inv.CurrentStock, inv.ReservedStock)
	}

	// Skipping straight to delivered is refused and leaves stock alone.
	_, err = svc.UpdateOrderStatus(ctx, first.ID, UpdateOrderStatusInput{Status: "delivered"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for pending to delivered, got %v", err)
	}
	if inv := reloadInventory(); inv.ReservedStock != 4 {
		t.Fatalf("refused transition must not move stock, reserved=%d", inv.ReservedStock)
	}

	if _, err := svc.UpdateOrderStatus(ctx, first.ID, UpdateOrderStatusInput{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if inv := reloadInventory(); inv.CurrentStock != 10 || inv.ReservedStock != 0 {
		t.Fatalf("cancel must release the reservation: current=%d reserved=%d", inv.CurrentStock, inv.ReservedStock)
	}

	second, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create second order: %v", err)
	}
	for _, status := range []string{"confirmed", "processing", "shipped", "delivered"} {
		if _, err := svc.UpdateOrderStatus(ctx, second.ID, UpdateOrderStatusInput{Status: status}); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}
	if inv := reloadInventory(); inv.CurrentStock != 7 || inv.ReservedStock != 0 {
		t.Fatalf("delivery must consume the reservation: current=%d reserved=%d", inv.CurrentStock, inv.ReservedStock)
	}
}
