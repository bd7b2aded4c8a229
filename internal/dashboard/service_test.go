package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/internal/inventory"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

func TestBucketMonthlySales(t *testing.T) {
	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rows := []salesOrderRecord{
		{OrderDate: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("100.00")},
		{OrderDate: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("40.00")},
		{OrderDate: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("60.50")},
		// Before the chart window, must be dropped.
		{OrderDate: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("999.00")},
	}

	buckets := bucketMonthlySales(rows, monthStart, 6)

	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	if buckets[0].Month != "2026-03" || buckets[5].Month != "2026-08" {
		t.Fatalf("unexpected bucket range: %s .. %s", buckets[0].Month, buckets[5].Month)
	}
	if buckets[0].Orders != 1 || !buckets[0].Revenue.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected march bucket: %+v", buckets[0])
	}
	if buckets[1].Orders != 0 || !buckets[1].Revenue.IsZero() {
		t.Fatalf("expected empty april bucket, got %+v", buckets[1])
	}
	if buckets[5].Orders != 2 || !buckets[5].Revenue.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("unexpected august bucket: %+v", buckets[5])
	}
}

func TestMergeAlertsOrdersAndCaps(t *testing.T) {
	expiry := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	feeds := &inventory.AlertsView{
		OutOfStock: []inventory.InventoryAlert{
			{ProductID: uuid.New(), ProductName: "Masks", ProductSKU: "MSK-001", StockStatus: enums.StockStatusOutOfStock},
		},
		LowStock: []inventory.InventoryAlert{
			{ProductID: uuid.New(), ProductName: "Gloves", ProductSKU: "GLV-001", AvailableStock: 3, ReorderPoint: 50, StockStatus: enums.StockStatusCritical},
		},
		Expiring: []inventory.InventoryAlert{
			{ProductID: uuid.New(), ProductName: "Gowns", ProductSKU: "GWN-001", ExpiryDate: &expiry, StockStatus: enums.StockStatusNormal},
		},
	}

	pending := []pendingOrderRecord{
		{ID: uuid.New(), OrderNumber: "ORD-2026-014", CustomerName: "Hospital General", OrderDate: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)},
	}

	alerts := mergeAlerts(feeds, pending, 20)
	if len(alerts) != 4 {
		t.Fatalf("expected 4 alerts, got %d", len(alerts))
	}
	if alerts[0].Kind != "out_of_stock" || alerts[1].Kind != "low_stock" || alerts[2].Kind != "expiring" || alerts[3].Kind != "pending_order" {
		t.Fatalf("unexpected alert ordering: %+v", alerts)
	}
	if alerts[2].Message != "Gowns (GWN-001) expires on 2026-10-01" {
		t.Fatalf("unexpected expiring message: %s", alerts[2].Message)
	}
	if alerts[3].Message != "Order ORD-2026-014 from Hospital General is awaiting confirmation" {
		t.Fatalf("unexpected pending message: %s", alerts[3].Message)
	}
	if alerts[3].OrderID == nil || *alerts[3].OrderID != pending[0].ID {
		t.Fatalf("expected order id on pending alert, got %+v", alerts[3])
	}

	big := &inventory.AlertsView{}
	for i := 0; i < 30; i++ {
		big.LowStock = append(big.LowStock, inventory.InventoryAlert{
			ProductID:   uuid.New(),
			ProductName: "Filler",
			ProductSKU:  "FIL-001",
		})
	}
	capped := mergeAlerts(big, nil, 20)
	if len(capped) != 20 {
		t.Fatalf("expected cap of 20, got %d", len(capped))
	}
}
