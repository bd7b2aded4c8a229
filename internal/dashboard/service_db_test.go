package dashboard

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/internal/inventory"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
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

type stubStockProvider struct {
	stats inventory.StatsView
}

func (s *stubStockProvider) GetAlerts(ctx context.Context) (*inventory.AlertsView, error) {
	return &inventory.AlertsView{}, nil
}

func (s *stubStockProvider) GetStats(ctx context.Context) (*inventory.StatsView, error) {
	stats := s.stats
	return &stats, nil
}

func mustCreateOrder(t *testing.T, tx *gorm.DB, customerID uuid.UUID, status enums.OrderStatus, orderDate time.Time, total string) {
	t.Helper()

	order := &models.Order{
		OrderNumber: "ORD-TST-" + uuid.NewString()[:8],
		CustomerID:  customerID,
		OrderDate:   orderDate,
		Status:      status,
		TotalAmount: decimal.RequireFromString(total),
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
}

func TestDashboardMetricsWindowAndStock(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	now := time.Now().UTC()

	stock := &stubStockProvider{stats: inventory.StatsView{
		TotalProducts:   9,
		TotalStockValue: decimal.RequireFromString("1234.505"),
		LowStockCount:   2,
		OutOfStockCount: 1,
		ExpiringCount:   3,
	}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})

	svc, err := NewService(NewRepository(tx), stock, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }

	before, err := svc.GetDashboard(ctx)
	if err != nil {
		t.Fatalf("baseline dashboard: %v", err)
	}

	customer := &models.Customer{Name: "Dashboard Test Clinic", Type: enums.CustomerTypeClinic, IsActive: true}
	if err := tx.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	mustCreateOrder(t, tx, customer.ID, enums.OrderStatusConfirmed, now.AddDate(0, 0, -10), "100.00")
	// Outside the trailing 30 days, must not count.
	mustCreateOrder(t, tx, customer.ID, enums.OrderStatusDelivered, now.AddDate(0, 0, -40), "999.00")
	// Cancelled orders never count towards revenue.
	mustCreateOrder(t, tx, customer.ID, enums.OrderStatusCancelled, now.AddDate(0, 0, -5), "50.00")

	after, err := svc.GetDashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if got := after.Metrics.MonthOrders - before.Metrics.MonthOrders; got != 1 {
		t.Fatalf("expected one new order in the 30 day window, got %d", got)
	}
	gained := after.Metrics.MonthRevenue.Sub(before.Metrics.MonthRevenue)
	if !gained.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected window revenue to gain 100.00, got %s", gained)
	}

	if after.Metrics.LowStockCount != 3 {
		t.Fatalf("expected low stock count 3 (low plus out of stock), got %d", after.Metrics.LowStockCount)
	}
	if after.Metrics.ExpiringCount != 3 {
		t.Fatalf("expected expiring count 3, got %d", after.Metrics.ExpiringCount)
	}
	if !after.Metrics.InventoryValue.Equal(decimal.RequireFromString("1234.51")) {
		t.Fatalf("expected rounded inventory value 1234.51, got %s", after.Metrics.InventoryValue)
	}
}
