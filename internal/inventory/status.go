package inventory

import "github.com/medsup-innovation/medsup-backend/pkg/enums"

// computeStockStatus derives the health of a stock position from its
// counters. Critical kicks in at half the reorder point.
func computeStockStatus(current, reserved, reorderPoint, maximumStock int) enums.StockStatus {
	if current <= 0 {
		return enums.StockStatusOutOfStock
	}

	available := current - reserved
	if available <= 0 {
		return enums.StockStatusOutOfStock
	}
	if reorderPoint > 0 {
		if available*2 <= reorderPoint {
			return enums.StockStatusCritical
		}
		if available <= reorderPoint {
			return enums.StockStatusLow
		}
	}
	if maximumStock > 0 && current >= maximumStock {
		return enums.StockStatusHigh
	}
	return enums.StockStatusNormal
}
