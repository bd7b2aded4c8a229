package enums

// StockStatus is the derived health of an inventory position. It is
// computed from counts and never stored.
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusCritical   StockStatus = "critical"
	StockStatusLow        StockStatus = "low"
	StockStatusNormal     StockStatus = "normal"
	StockStatusHigh       StockStatus = "high"
)

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}
