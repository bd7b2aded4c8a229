package inventory

import (
	"testing"

	"github.com/medsup-innovation/medsup-backend/pkg/enums"
)

func TestComputeStockStatus(t *testing.T) {
	cases := []struct {
		name         string
		current      int
		reserved     int
		reorderPoint int
		maximumStock int
		want         enums.StockStatus
	}{
		{name: "zeroStock", current: 0, reorderPoint: 10, want: enums.StockStatusOutOfStock},
		{name: "fullyReserved", current: 5, reserved: 5, reorderPoint: 10, want: enums.StockStatusOutOfStock},
		{name: "critical", current: 4, reserved: 0, reorderPoint: 10, want: enums.StockStatusCritical},
		{name: "criticalBoundary", current: 5, reserved: 0, reorderPoint: 10, want: enums.StockStatusCritical},
		{name: "low", current: 9, reserved: 0, reorderPoint: 10, want: enums.StockStatusLow},
		{name: "lowBoundary", current: 10, reserved: 0, reorderPoint: 10, want: enums.StockStatusLow},
		{name: "normal", current: 50, reserved: 10, reorderPoint: 10, want: enums.StockStatusNormal},
		{name: "high", current: 200, reserved: 0, reorderPoint: 10, maximumStock: 200, want: enums.StockStatusHigh},
		{name: "reservationsDropToLow", current: 20, reserved: 12, reorderPoint: 10, want: enums.StockStatusLow},
		{name: "noReorderPoint", current: 1, reserved: 0, reorderPoint: 0, want: enums.StockStatusNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeStockStatus(tc.current, tc.reserved, tc.reorderPoint, tc.maximumStock)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
